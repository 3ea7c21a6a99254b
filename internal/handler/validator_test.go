package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_NoMarkup(t *testing.T) {
	type body struct {
		Text string `json:"text" validate:"nomarkup"`
	}

	tests := []struct {
		text  string
		valid bool
	}{
		{"", true},
		{"Daily quiz bonus", true},
		{"Tom & Jerry's \"pack\"", true},
		{"3 < 5", true},
		{"<b>bold</b>", false},
		{"<script>alert(1)</script>", false},
		{`<a href="https://example.com">free diamonds</a>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			err := GetValidator().ValidateStruct(body{Text: tt.text})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, "Must not contain markup", FormatValidationError(err)["text"])
		})
	}
}

func TestValidator_TransactionType(t *testing.T) {
	type body struct {
		Source string `json:"source" validate:"txtype"`
	}

	assert.NoError(t, GetValidator().ValidateStruct(body{Source: "quiz_completion"}))
	err := GetValidator().ValidateStruct(body{Source: "lottery"})
	assert.Equal(t, "Unknown transaction type", FormatValidationError(err)["source"])
}

func TestValidator_EarnAndSpendSources(t *testing.T) {
	type earnBody struct {
		Source string `json:"source" validate:"earnsource"`
	}
	type spendBody struct {
		Source string `json:"source" validate:"spendsource"`
	}

	for _, src := range []string{"quiz_completion", "LESSON_COMPLETION", "activity_completion"} {
		assert.NoError(t, GetValidator().ValidateStruct(earnBody{Source: src}), src)
		assert.Error(t, GetValidator().ValidateStruct(spendBody{Source: src}), src)
	}
	for _, src := range []string{"DAILY_LOGIN", "streak_milestone", "BADGE_REWARD", "ADMIN_ADJUSTMENT", "PACK_PURCHASE"} {
		err := GetValidator().ValidateStruct(earnBody{Source: src})
		assert.Equal(t, "Cannot be earned directly", FormatValidationError(err)["source"], src)
	}

	assert.NoError(t, GetValidator().ValidateStruct(spendBody{Source: "pack_purchase"}))
	err := GetValidator().ValidateStruct(spendBody{Source: "ADMIN_ADJUSTMENT"})
	assert.Equal(t, "Cannot be spent", FormatValidationError(err)["source"])
}
