package services

import (
	"context"
	"fmt"
	"strings"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// EquipmentImportService - массовая регистрация оборудования из
// инвентарной ведомости .xlsx. Ожидаемые колонки: название, серийный
// номер, подразделение, расположение, команда (по имени). Шапка ищется
// по содержимому, а не по фиксированной строке.
type EquipmentImportService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentImportService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) *EquipmentImportService {
	return &EquipmentImportService{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		logger:        logger,
	}
}

func (s *EquipmentImportService) Import(ctx context.Context, path string) (*dto.EquipmentImportResultDTO, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	rows, headerRow, cols, err := findHeader(f)
	if err != nil {
		return nil, err
	}

	teams, _, err := s.teamRepo.GetTeams(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	teamsByName := make(map[string]uint64, len(teams))
	for _, t := range teams {
		teamsByName[strings.ToLower(t.Name)] = t.ID
	}

	result := &dto.EquipmentImportResultDTO{BatchID: uuid.NewString()}
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		name := cellAt(row, cols.name)
		serial := cellAt(row, cols.serial)
		teamName := cellAt(row, cols.team)
		if name == "" || serial == "" {
			result.Skipped++
			continue
		}

		teamID, ok := teamsByName[strings.ToLower(teamName)]
		if !ok {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("строка %d: команда %q не найдена", i+1, teamName))
			continue
		}

		_, err := s.equipmentRepo.CreateEquipment(ctx, entities.Equipment{
			Name:         name,
			SerialNumber: serial,
			Department:   cellAt(row, cols.department),
			Location:     cellAt(row, cols.location),
			TeamID:       teamID,
			Status:       entities.EquipmentActive,
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("строка %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("импорт оборудования завершен",
		zap.String("batchId", result.BatchID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

type headerColumns struct {
	name       int
	serial     int
	department int
	location   int
	team       int
}

func findHeader(f *excelize.File) ([][]string, int, headerColumns, error) {
	cols := headerColumns{name: -1, serial: -1, department: -1, location: -1, team: -1}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for rIdx, row := range rows {
			rowStr := strings.ToLower(strings.Join(row, "|"))
			if !strings.Contains(rowStr, "назван") || !strings.Contains(rowStr, "серийн") {
				continue
			}
			for cIdx, colName := range row {
				cLower := strings.ToLower(strings.TrimSpace(colName))
				switch {
				case strings.Contains(cLower, "назван"):
					cols.name = cIdx
				case strings.Contains(cLower, "серийн"):
					cols.serial = cIdx
				case strings.Contains(cLower, "подраздел") || strings.Contains(cLower, "отдел"):
					cols.department = cIdx
				case strings.Contains(cLower, "располож") || strings.Contains(cLower, "адрес"):
					cols.location = cIdx
				case strings.Contains(cLower, "команд"):
					cols.team = cIdx
				}
			}
			if cols.name != -1 && cols.serial != -1 && cols.team != -1 {
				return rows, rIdx, cols, nil
			}
		}
	}

	return nil, 0, cols, fmt.Errorf("не найдена шапка таблицы: нужны колонки 'Название', 'Серийный номер' и 'Команда'")
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
