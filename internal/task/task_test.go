package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, PriorityLow.Rank(), Priority("").Rank())
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"high", PriorityHigh, false},
		{" Medium ", PriorityMedium, false},
		{"LOW", PriorityLow, false},
		{"", "", false},
		{"urgent", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "priority", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldsNormalize(t *testing.T) {
	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	f, err := Fields{Name: "  Read chapter 4 ", Subject: " Physics ", DueDate: &due}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Read chapter 4", f.Name)
	assert.Equal(t, "Physics", f.Subject)
	assert.Equal(t, PriorityMedium, f.Priority, "dated tasks default to medium")

	f, err = Fields{Name: "buy milk"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Priority(""), f.Priority, "undated tasks keep no priority")

	_, err = Fields{Name: " \t "}.Normalize()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = Fields{Name: "x", Priority: "urgent"}.Normalize()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
}

func TestPatchApply(t *testing.T) {
	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tk := Task{ID: "a", Name: "old", Subject: "Math", DueDate: &due, Priority: PriorityLow}

	err := Patch{Name: ptr(" new "), Priority: ptr(PriorityHigh)}.Apply(&tk)
	require.NoError(t, err)
	assert.Equal(t, "new", tk.Name)
	assert.Equal(t, PriorityHigh, tk.Priority)
	assert.Equal(t, "Math", tk.Subject)
	require.NotNil(t, tk.DueDate)

	require.NoError(t, Patch{ClearDueDate: true}.Apply(&tk))
	assert.Nil(t, tk.DueDate)

	err = Patch{Name: ptr("   ")}.Apply(&tk)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "new", tk.Name, "rejected patch leaves the name alone")
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{ClearDueDate: true}.IsEmpty())
	assert.False(t, Patch{Subject: ptr("")}.IsEmpty())
}

func TestClone(t *testing.T) {
	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	orig := Task{ID: "a", DueDate: &due}
	c := orig.Clone()
	*c.DueDate = c.DueDate.Add(time.Hour)
	assert.True(t, orig.DueDate.Equal(due))
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "task not found: xyz789", (&NotFoundError{ID: "xyz789"}).Error())
	assert.Equal(t, "invalid name: cannot be empty", (&ValidationError{Field: "name", Reason: "cannot be empty"}).Error())

	cause := errors.New("unexpected end of JSON input")
	err := &PersistenceReadError{Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
