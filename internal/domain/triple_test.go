package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTriple(t *testing.T) {
	now := time.Now().UTC()

	t.Run("accepts a URI object triple", func(t *testing.T) {
		tr := NewTriple("t-1", "urn:eng#Engineer", "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", "urn:proeth#Role", false, now)
		require.NoError(t, ValidateTriple(tr))
		assert.Equal(t, "urn:proeth#Role", tr.Object())
		assert.Empty(t, tr.ObjectLiteral)
	})

	t.Run("accepts a literal object triple", func(t *testing.T) {
		tr := NewTriple("t-2", "urn:eng#Engineer", "http://www.w3.org/2000/01/rdf-schema#label", "Engineer", true, now)
		require.NoError(t, ValidateTriple(tr))
		assert.Equal(t, "Engineer", tr.Object())
		assert.Empty(t, tr.ObjectURI)
	})

	t.Run("rejects literal flag with URI object", func(t *testing.T) {
		tr := &Triple{
			ID:        "t-3",
			Subject:   "urn:eng#Engineer",
			Predicate: "urn:eng#related",
			ObjectURI: "urn:eng#Safety",
			IsLiteral: true,
		}
		assert.ErrorIs(t, ValidateTriple(tr), ErrLiteralURIMismatch)
	})

	t.Run("rejects both object fields set", func(t *testing.T) {
		tr := &Triple{
			ID:            "t-4",
			Subject:       "urn:eng#Engineer",
			Predicate:     "urn:eng#related",
			ObjectURI:     "urn:eng#Safety",
			ObjectLiteral: "safety",
			IsLiteral:     false,
		}
		assert.ErrorIs(t, ValidateTriple(tr), ErrLiteralURIMismatch)
	})

	t.Run("rejects missing subject", func(t *testing.T) {
		tr := NewTriple("t-5", "", "urn:eng#related", "urn:eng#Safety", false, now)
		assert.Error(t, ValidateTriple(tr))
	})

	t.Run("rejects nil triple", func(t *testing.T) {
		assert.Error(t, ValidateTriple(nil))
	})
}

func TestValidateCandidate(t *testing.T) {
	t.Run("accepts a complete candidate", func(t *testing.T) {
		c := &TripleCandidate{
			Subject:   "urn:eng#Engineer",
			Predicate: "urn:proeth#hasObligation",
			Object:    "urn:eng#ProtectPublic",
		}
		assert.NoError(t, ValidateCandidate(c))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		assert.Error(t, ValidateCandidate(&TripleCandidate{Predicate: "p", Object: "o"}))
		assert.Error(t, ValidateCandidate(&TripleCandidate{Subject: "s", Object: "o"}))
		assert.Error(t, ValidateCandidate(&TripleCandidate{Subject: "s", Predicate: "p"}))
		assert.Error(t, ValidateCandidate(nil))
	})
}

func TestEntityCategory(t *testing.T) {
	t.Run("all listed categories are valid", func(t *testing.T) {
		for _, c := range AllCategories {
			assert.True(t, c.IsValid(), "category %s", c)
		}
	})

	t.Run("unknown category is invalid", func(t *testing.T) {
		assert.False(t, EntityCategory("dilemma").IsValid())
	})
}
