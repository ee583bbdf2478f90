package chat

import (
	"testing"
	"time"

	"attendance.bot/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoulFormatter(t *testing.T) *Formatter {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return NewFormatter(loc)
}

func TestFormatterRendersClockInConfiguredZone(t *testing.T) {
	f := seoulFormatter(t)

	// 00:05 UTC is 09:05 in Seoul.
	ts := time.Date(2024, 3, 18, 0, 5, 0, 0, time.UTC)

	assert.Contains(t, f.CheckIn("Kim", ts).Text, "09:05에 출근하셨습니다")
	assert.Contains(t, f.BreakStart("Kim", ts).Text, "09:05에 휴식을 시작했습니다")
	assert.Contains(t, f.BreakEnd("Kim", ts).Text, "09:05에 업무를 재개했습니다")
}

func TestFormatterCheckOutIncludesWorkingHours(t *testing.T) {
	f := seoulFormatter(t)
	ts := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

	msg := f.CheckOut("Kim", ts, model.WorkingHoursResult{
		WorkingHours: 7, WorkingMinutes: 45,
		BreakHours: 1, BreakMinutes: 0,
		TotalHours: 8, TotalMinutes: 45,
	})

	assert.Contains(t, msg.Text, "퇴근하셨습니다")
	assert.Contains(t, msg.Text, "7시간 45분")
}

func TestCommandExtraction(t *testing.T) {
	msg := &InboundMessage{Text: "  /출근  "}
	assert.Equal(t, CmdCheckIn, msg.Command())

	msg = &InboundMessage{
		Text:         "@bot please",
		SlashCommand: &SlashCommand{CommandName: "/퇴근"},
	}
	assert.Equal(t, CmdCheckOut, msg.Command())

	assert.Equal(t, "", (*InboundMessage)(nil).Command())
}
