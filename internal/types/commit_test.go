package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCommit_LeavesInputUntouched(t *testing.T) {
	doc := sampleDocument()

	next, err := Commit(doc, Change{
		Summary: strPtr("Poet of science."),
		Experience: &ListChange[Experience]{
			Upsert: []Experience{{ID: "exp_1", Position: "Lead Analyst", Company: "Babbage & Co"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Poet of science.", next.Summary)
	assert.Equal(t, "Lead Analyst", next.Experience[0].Position)
	assert.NotNil(t, next.Experience[0].Achievements)

	assert.Equal(t, "Analyst of engines.", doc.Summary)
	assert.Equal(t, "Analyst", doc.Experience[0].Position)
	assert.Equal(t, []string{"Wrote notes"}, doc.Experience[0].Achievements)
}

func TestCommit_UpsertAppendsAndAssignsIDs(t *testing.T) {
	doc := sampleDocument()

	next, err := Commit(doc, Change{
		Skills: &ListChange[Skill]{Upsert: []Skill{{Name: "Poetry"}}},
	})
	require.NoError(t, err)

	require.Len(t, next.Skills, 2)
	assert.Equal(t, "Poetry", next.Skills[1].Name)
	assert.NotEmpty(t, next.Skills[1].ID)
	assert.Len(t, doc.Skills, 1)
}

func TestCommit_RemoveAndOrder(t *testing.T) {
	doc := sampleDocument()
	doc.Experience = append(doc.Experience, Experience{ID: "exp_3", Position: "Countess"})

	next, err := Commit(doc, Change{
		Experience: &ListChange[Experience]{
			Remove: []string{"exp_2"},
			Order:  []string{"exp_3", "exp_1"},
		},
	})
	require.NoError(t, err)
	require.Len(t, next.Experience, 2)
	assert.Equal(t, "exp_3", next.Experience[0].ID)
	assert.Equal(t, "exp_1", next.Experience[1].ID)
	assert.Len(t, doc.Experience, 3)
	assert.Equal(t, "exp_2", doc.Experience[1].ID)
}

func TestCommit_Errors(t *testing.T) {
	doc := sampleDocument()

	tests := []struct {
		name    string
		change  Change
		unknown string
	}{
		{
			name:    "remove unknown",
			change:  Change{Experience: &ListChange[Experience]{Remove: []string{"nope"}}},
			unknown: "nope",
		},
		{
			name:    "order unknown",
			change:  Change{Experience: &ListChange[Experience]{Order: []string{"exp_1", "nope"}}},
			unknown: "nope",
		},
		{
			name:    "order duplicate",
			change:  Change{Experience: &ListChange[Experience]{Order: []string{"exp_1", "exp_1"}}},
			unknown: "exp_1",
		},
		{
			name:   "order incomplete",
			change: Change{Experience: &ListChange[Experience]{Order: []string{"exp_1"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Commit(doc, tt.change)
			require.ErrorIs(t, err, ErrInvalidChange)
			assert.Equal(t, doc.Experience, got.Experience)
			if tt.unknown != "" {
				var ue *UnknownEntryError
				require.True(t, errors.As(err, &ue))
				assert.Equal(t, "experience", ue.List)
				assert.Equal(t, tt.unknown, ue.ID)
			}
		})
	}
}

func TestCommitLetter(t *testing.T) {
	letter := Letter{
		Sender:     Party{Name: "Ada"},
		Paragraphs: []string{"First."},
	}
	paragraphs := []string{"First.", "Second."}

	next := CommitLetter(letter, LetterChange{
		Subject:    strPtr("Application"),
		Paragraphs: &paragraphs,
	})

	assert.Equal(t, "Application", next.Subject)
	assert.Equal(t, []string{"First.", "Second."}, next.Paragraphs)
	assert.Equal(t, SignatureTyped, next.Signature.Kind)
	assert.Equal(t, []string{"First."}, letter.Paragraphs)

	paragraphs[0] = "mutated"
	assert.Equal(t, "First.", next.Paragraphs[0])
}
