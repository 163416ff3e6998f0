package entities

import (
	"testing"

	apperrors "maintenance-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatusValid(t *testing.T) {
	assert.True(t, StatusNew.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusRepaired.Valid())
	assert.True(t, StatusScrap.Valid())

	assert.False(t, RequestStatus("Done").Valid())
	assert.False(t, RequestStatus("new").Valid(), "статусы чувствительны к регистру")
	assert.False(t, RequestStatus("").Valid())
}

func TestParseRequestStatus(t *testing.T) {
	s, err := ParseRequestStatus("In Progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseRequestStatus("Closed")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRequestStatus)
}

// Граф переходов полный: карточку можно перетащить между любыми из
// четырех колонок, в том числе обратно из конечных статусов.
func TestAnyValidTransitionAllowed(t *testing.T) {
	all := []RequestStatus{StatusNew, StatusInProgress, StatusRepaired, StatusScrap}
	for _, from := range all {
		for _, to := range all {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, StatusNew.CanTransitionTo(RequestStatus("Done")))
	assert.False(t, RequestStatus("Done").CanTransitionTo(StatusNew))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusRepaired.IsTerminal())
	assert.True(t, StatusScrap.IsTerminal())
}

func TestEquipmentStatusFor(t *testing.T) {
	status, ok := EquipmentStatusFor(StatusScrap)
	require.True(t, ok)
	assert.Equal(t, EquipmentScrapped, status)

	status, ok = EquipmentStatusFor(StatusRepaired)
	require.True(t, ok)
	assert.Equal(t, EquipmentActive, status)

	_, ok = EquipmentStatusFor(StatusNew)
	assert.False(t, ok)
	_, ok = EquipmentStatusFor(StatusInProgress)
	assert.False(t, ok)
}

func TestRequestTypeAndPriorityValid(t *testing.T) {
	assert.True(t, TypePreventive.Valid())
	assert.True(t, TypeCorrective.Valid())
	assert.False(t, RequestType("Routine").Valid())

	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("Urgent").Valid())
}
