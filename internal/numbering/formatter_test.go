package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func renderCtx(seq int64) Context {
	return Context{
		Country:   "India",
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Sequence:  seq,
	}
}

func TestRender_DefaultInvoiceTemplate(t *testing.T) {
	got := Render("INV-{CC}{FY}-{SEQ:3}", renderCtx(7))
	assert.Equal(t, "INV-IN2425-007", got)
}

func TestRender_AllTokens(t *testing.T) {
	got := Render("{CC}/{FY}/{YYYY}/{MM}/{SEQ}", renderCtx(42))
	assert.Equal(t, "IN/2425/2024/06/042", got)
}

func TestRender_SeqWidths(t *testing.T) {
	assert.Equal(t, "001", Render("{SEQ}", renderCtx(1)))
	assert.Equal(t, "00001", Render("{SEQ:5}", renderCtx(1)))
	assert.Equal(t, "1234", Render("{SEQ:3}", renderCtx(1234)))
	assert.Equal(t, "1", Render("{SEQ:1}", renderCtx(1)))
}

func TestRender_NoSeqTokenAppendsSequence(t *testing.T) {
	got := Render("INV-{FY}", renderCtx(12))
	assert.Equal(t, "INV-2425-12", got)
}

func TestRender_Pure(t *testing.T) {
	a := Render("INV-{CC}{FY}-{SEQ:3}", renderCtx(99))
	b := Render("INV-{CC}{FY}-{SEQ:3}", renderCtx(99))
	assert.Equal(t, a, b)
}

func TestRender_MultipleSeqTokens(t *testing.T) {
	got := Render("{SEQ:2}-{SEQ:4}", renderCtx(9))
	assert.Equal(t, "09-0009", got)
}
