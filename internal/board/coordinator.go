// Package board держит рабочее представление заявок для канбан-доски
// одной сессии. Перенос карточки применяется к локальному виду сразу,
// а подтверждение движка доезжает асинхронно: так drag-and-drop
// ощущается синхронным при любой задержке персистентности.
package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dispatchTimeout = 15 * time.Second

// Engine - движок жизненного цикла, которому доска отдает команды.
type Engine interface {
	TransitionStatus(ctx context.Context, id uint64, newStatus entities.RequestStatus) (*dto.RequestDTO, error)
}

// MoveCommand - одна команда переноса, выданная пользователем.
// Seq монотонно растет в пределах заявки: более поздняя команда
// логически отменяет более раннюю.
type MoveCommand struct {
	ID        uuid.UUID
	RequestID uint64
	Target    entities.RequestStatus
	Seq       uint64
	IssuedAt  time.Time
}

// FailureHandler вызывается, когда движок отклонил перенос; локальный
// вид к этому моменту уже откачен до последнего закоммиченного статуса.
type FailureHandler func(cmd MoveCommand, err error)

type Coordinator struct {
	engine    Engine
	logger    *zap.Logger
	onFailure FailureHandler

	mu        sync.Mutex
	view      map[uint64]dto.RequestDTO
	committed map[uint64]entities.RequestStatus
	lastSeq   map[uint64]uint64
	queues    map[uint64]chan MoveCommand

	pending sync.WaitGroup
	workers sync.WaitGroup
	closed  bool
}

// NewCoordinator строит доску поверх снапшота заявок. Статусы снапшота
// считаются закоммиченными: к ним происходит откат при отказе движка.
func NewCoordinator(engine Engine, initial []dto.RequestDTO, logger *zap.Logger) *Coordinator {
	c := &Coordinator{
		engine:    engine,
		logger:    logger,
		view:      make(map[uint64]dto.RequestDTO, len(initial)),
		committed: make(map[uint64]entities.RequestStatus, len(initial)),
		lastSeq:   make(map[uint64]uint64),
		queues:    make(map[uint64]chan MoveCommand),
	}
	for _, card := range initial {
		c.view[card.ID] = card
		c.committed[card.ID] = entities.RequestStatus(card.Status)
	}
	return c
}

// SetFailureHandler задает обработчик отказов для показа на доске.
func (c *Coordinator) SetFailureHandler(h FailureHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFailure = h
}

// Move - команда переноса карточки. Локальный вид переписывается
// синхронно, вызов движка уходит в очередь этой заявки. Команды одной
// заявки сериализуются, поэтому подтверждения не обгоняют друг друга;
// команды разных заявок идут параллельно.
func (c *Coordinator) Move(requestID uint64, target entities.RequestStatus) (MoveCommand, error) {
	if !target.Valid() {
		return MoveCommand{}, apperrors.ErrUnknownRequestStatus
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return MoveCommand{}, apperrors.NewInvalidInputError("доска закрыта")
	}
	card, ok := c.view[requestID]
	if !ok {
		c.mu.Unlock()
		return MoveCommand{}, apperrors.ErrRequestNotFound
	}

	c.lastSeq[requestID]++
	cmd := MoveCommand{
		ID:        uuid.New(),
		RequestID: requestID,
		Target:    target,
		Seq:       c.lastSeq[requestID],
		IssuedAt:  time.Now(),
	}

	// 1. Оптимистичное применение: без ожидания сети.
	card.Status = string(target)
	c.view[requestID] = card

	queue, ok := c.queues[requestID]
	if !ok {
		queue = make(chan MoveCommand, 64)
		c.queues[requestID] = queue
		c.workers.Add(1)
		go c.runWorker(queue)
	}
	c.pending.Add(1)
	c.mu.Unlock()

	// 2. Отправка движку.
	queue <- cmd
	return cmd, nil
}

func (c *Coordinator) runWorker(queue chan MoveCommand) {
	defer c.workers.Done()
	for cmd := range queue {
		c.dispatch(cmd)
		c.pending.Done()
	}
}

func (c *Coordinator) dispatch(cmd MoveCommand) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	updated, err := c.engine.TransitionStatus(ctx, cmd.RequestID, cmd.Target)

	c.mu.Lock()

	if err != nil {
		c.rollback(cmd)
		handler := c.onFailure
		c.mu.Unlock()

		c.logger.Warn("движок отклонил перенос, локальный вид откачен",
			zap.Uint64("requestId", cmd.RequestID),
			zap.String("target", string(cmd.Target)),
			zap.Uint64("seq", cmd.Seq),
			zap.Error(err),
		)
		// Обработчик зовется без мьютекса: ему можно читать координатор.
		if handler != nil {
			handler(cmd, err)
		}
		return
	}

	// Переход закоммичен: теперь к этому статусу откатываемся при
	// отказе следующих команд.
	c.committed[cmd.RequestID] = cmd.Target

	// Устаревшее подтверждение (пользователь уже перенес карточку
	// дальше) локальный вид не трогает.
	if c.lastSeq[cmd.RequestID] == cmd.Seq && updated != nil {
		c.view[cmd.RequestID] = *updated
	}
	c.mu.Unlock()
}

// rollback вызывается под c.mu.
func (c *Coordinator) rollback(cmd MoveCommand) {
	// Откат только если команда все еще последняя выданная: более
	// поздний перенос уже переписал карточку и этот отказ ничего не
	// значит для рендера.
	if c.lastSeq[cmd.RequestID] == cmd.Seq {
		if card, ok := c.view[cmd.RequestID]; ok {
			card.Status = string(c.committed[cmd.RequestID])
			c.view[cmd.RequestID] = card
		}
	}
}

// Upsert добавляет или обновляет карточку из внешнего источника
// (создание заявки, push от других сессий). Карточка с переносом в
// полете не переписывается: локальная мутация выигрывает для рендера.
func (c *Coordinator) Upsert(card dto.RequestDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.view[card.ID]; ok && existing.Status != string(c.committed[card.ID]) {
		// есть неподтвержденный локальный перенос: двигаем только
		// закоммиченную базу, вид не трогаем
		c.committed[card.ID] = entities.RequestStatus(card.Status)
		return
	}
	c.view[card.ID] = card
	c.committed[card.ID] = entities.RequestStatus(card.Status)
}

// Snapshot возвращает текущий локальный вид доски, отсортированный по
// идентификатору заявки.
func (c *Coordinator) Snapshot() []dto.RequestDTO {
	c.mu.Lock()
	defer c.mu.Unlock()

	cards := make([]dto.RequestDTO, 0, len(c.view))
	for _, card := range c.view {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

// Status возвращает локальный статус карточки.
func (c *Coordinator) Status(requestID uint64) (entities.RequestStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.view[requestID]
	if !ok {
		return "", false
	}
	return entities.RequestStatus(card.Status), true
}

// Wait блокируется, пока все выданные команды не получат ответ движка.
func (c *Coordinator) Wait() {
	c.pending.Wait()
}

// Close останавливает воркеры после доставки всех команд в полете.
func (c *Coordinator) Close() {
	c.pending.Wait()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, queue := range c.queues {
		close(queue)
	}
	c.mu.Unlock()

	c.workers.Wait()
}
