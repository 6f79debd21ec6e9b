// Package responsecode maps processor result codes to canonical outcomes.
package responsecode

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// Well known codes.
const (
	CodeSuccess       = "000"
	CodeUserCancelled = "036"
)

var defaultTable = []model.ResponseCodeEntry{
	{Code: CodeSuccess, Outcome: model.OutcomeSuccess, Message: "Transaction successful"},
	{Code: "001", Outcome: model.OutcomeError, Message: "Transaction pending verification"},
	{Code: "002", Outcome: model.OutcomeError, Message: "Transaction rejected by processor"},
	{Code: "003", Outcome: model.OutcomeError, Message: "Card expired"},
	{Code: "004", Outcome: model.OutcomeError, Message: "Invalid card number"},
	{Code: "005", Outcome: model.OutcomeError, Message: "Insufficient funds"},
	{Code: "006", Outcome: model.OutcomeError, Message: "Payment declined by issuer"},
	{Code: "007", Outcome: model.OutcomeError, Message: "Invalid card security code"},
	{Code: "008", Outcome: model.OutcomeError, Message: "Card not supported"},
	{Code: "009", Outcome: model.OutcomeError, Message: "3-D Secure authentication failed"},
	{Code: "012", Outcome: model.OutcomeError, Message: "Invalid transaction"},
	{Code: "013", Outcome: model.OutcomeError, Message: "Invalid amount"},
	{Code: "030", Outcome: model.OutcomeError, Message: "Message format error"},
	{Code: CodeUserCancelled, Outcome: model.OutcomeError, Message: "Transaction cancelled by user"},
	{Code: "041", Outcome: model.OutcomeError, Message: "Card reported lost"},
	{Code: "043", Outcome: model.OutcomeError, Message: "Card reported stolen"},
	{Code: "061", Outcome: model.OutcomeError, Message: "Amount exceeds withdrawal limit"},
	{Code: "091", Outcome: model.OutcomeError, Message: "Issuer unavailable"},
	{Code: "096", Outcome: model.OutcomeError, Message: "System malfunction at processor"},
	{Code: "999", Outcome: model.OutcomeError, Message: "Transaction timed out"},
}

// Translator resolves processor codes against a read-only table.
type Translator struct {
	entries map[string]model.ResponseCodeEntry
}

// NewTranslator builds translator from entries. Later entries win on duplicate codes.
func NewTranslator(entries []model.ResponseCodeEntry) *Translator {
	t := &Translator{entries: make(map[string]model.ResponseCodeEntry, len(entries))}
	for _, e := range entries {
		t.entries[strings.TrimSpace(e.Code)] = e
	}
	return t
}

// Default returns translator with the built-in table.
func Default() *Translator {
	return NewTranslator(defaultTable)
}

// LoadFile reads a JSON array of entries.
func LoadFile(path string) (*Translator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read response codes: %w", err)
	}
	var entries []model.ResponseCodeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode response codes: %w", err)
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Code) == "" {
			return nil, fmt.Errorf("response code entry without code")
		}
		if e.Outcome != model.OutcomeSuccess && e.Outcome != model.OutcomeError {
			return nil, fmt.Errorf("response code %s: unknown outcome %q", e.Code, e.Outcome)
		}
	}
	return NewTranslator(entries), nil
}

// Translate never fails: unknown codes degrade to an error outcome carrying the code.
func (t *Translator) Translate(code string) model.Translation {
	code = strings.TrimSpace(code)
	if e, ok := t.entries[code]; ok {
		return model.Translation{Code: code, Outcome: e.Outcome, Message: e.Message}
	}
	return model.Translation{Code: code, Outcome: model.OutcomeError, Message: fmt.Sprintf("Unknown error (code: %s)", code)}
}

// Entry returns the raw table row for code.
func (t *Translator) Entry(code string) (model.ResponseCodeEntry, bool) {
	e, ok := t.entries[strings.TrimSpace(code)]
	return e, ok
}
