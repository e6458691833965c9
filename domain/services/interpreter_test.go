package services

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretKeywordExtraction(t *testing.T) {
	interp := NewInterpreter()

	t.Run("drops stop words and short tokens", func(t *testing.T) {
		q := interp.Interpret("what is the GDP of NSW")
		assert.Equal(t, []string{"gdp", "nsw"}, q.Keywords)
	})

	t.Run("strips punctuation", func(t *testing.T) {
		q := interp.Interpret("housing, prices! (2023)")
		assert.Equal(t, []string{"housing", "prices", "2023"}, q.Keywords)
	})

	t.Run("deduplicates preserving first occurrence", func(t *testing.T) {
		q := interp.Interpret("housing housing affordability housing")
		assert.Equal(t, []string{"housing", "affordability"}, q.Keywords)
	})

	t.Run("empty input yields empty keywords", func(t *testing.T) {
		q := interp.Interpret("   ")
		assert.Empty(t, q.Keywords)
		assert.Equal(t, IntentSearch, q.Intent)
		assert.Equal(t, 0.5, q.Confidence)
	})
}

func TestInterpretIntent(t *testing.T) {
	interp := NewInterpreter()

	cases := []struct {
		text string
		want Intent
	}{
		{"what is the unemployment rate", IntentQuestion},
		{"how many hospitals are in vic", IntentQuestion},
		{"show me school enrolments", IntentLookup},
		{"list all housing datasets", IntentLookup},
		{"compare rents in nsw versus vic", IntentCompare},
		{"population growth over time", IntentTrend},
		{"wage changes since 2019", IntentTrend},
		{"hospital bed capacity", IntentSearch},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			q := interp.Interpret(tc.text)
			assert.Equal(t, tc.want, q.Intent)
		})
	}
}

func TestInterpretQuestionOutranksTrend(t *testing.T) {
	interp := NewInterpreter()

	// Leading question words win even when trend markers appear later.
	q := interp.Interpret("what are the trends in migration")
	assert.Equal(t, IntentQuestion, q.Intent)
}

func TestInterpretEntities(t *testing.T) {
	interp := NewInterpreter()

	t.Run("states years and months", func(t *testing.T) {
		q := interp.Interpret("hospital admissions in qld during march 2022")
		assert.Contains(t, q.Entities, "qld")
		assert.Contains(t, q.Entities, "2022")
		assert.Contains(t, q.Entities, "march")
	})

	t.Run("deduplicates entities", func(t *testing.T) {
		q := interp.Interpret("nsw and nsw again in 2021")
		assert.Equal(t, []string{"nsw", "2021"}, q.Entities)
	})
}

func TestInterpretDomainDetection(t *testing.T) {
	interp := NewInterpreter()

	t.Run("detects domains from vocabulary terms", func(t *testing.T) {
		q := interp.Interpret("unemployment and wages by industry")
		require.NotEmpty(t, q.Domains)
		assert.Equal(t, "labour", q.PrimaryDomain())
	})

	t.Run("literal domain name outweighs single term hits", func(t *testing.T) {
		q := interp.Interpret("health outcomes")
		assert.Equal(t, "health", q.PrimaryDomain())
	})
}

func TestInterpretAgedCareScenario(t *testing.T) {
	interp := NewInterpreter()

	q := interp.Interpret("aged care workforce trends by region since 2015")

	assert.ElementsMatch(t,
		[]string{"aged", "care", "workforce", "trends", "region", "since", "2015"},
		q.Keywords,
	)
	assert.Equal(t, IntentTrend, q.Intent)
	assert.Equal(t, []string{"2015"}, q.Entities)

	require.NotEmpty(t, q.Domains)
	domains := make([]string, 0, len(q.Domains))
	for _, d := range q.Domains {
		domains = append(domains, string(d))
	}
	assert.Contains(t, domains, "health")
	assert.Contains(t, domains, "ageing")
	assert.Contains(t, domains, "labour")

	assert.Equal(t, 0.9, q.Confidence)
}

func TestInterpretConfidenceBounds(t *testing.T) {
	interp := NewInterpreter()

	inputs := []string{
		"",
		"a",
		"the and of",
		"housing",
		"aged care workforce trends by region since 2015",
		"unemployment health housing education ageing population inequality nsw vic qld 2019 2020 2021",
	}

	for _, text := range inputs {
		q := interp.Interpret(text)
		assert.GreaterOrEqual(t, q.Confidence, 0.5, "input %q", text)
		assert.LessOrEqual(t, q.Confidence, 0.9, "input %q", text)
	}
}

func TestInterpretDeterministic(t *testing.T) {
	interp := NewInterpreter()

	text := "compare hospital funding between nsw and vic since 2018"
	first := interp.Interpret(text)
	for i := 0; i < 5; i++ {
		again := interp.Interpret(text)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("interpretation not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestInterpretPreservesOriginalText(t *testing.T) {
	interp := NewInterpreter()

	text := "Show Me HOUSING Prices!"
	q := interp.Interpret(text)
	assert.Equal(t, text, q.OriginalText)
}
