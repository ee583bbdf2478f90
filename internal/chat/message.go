package chat

import (
	"fmt"
	"time"

	"attendance.bot/internal/core/model"
)

// Message is an outbound Google Chat message: either plain text or one or
// more cards.
type Message struct {
	Text  string `json:"text,omitempty"`
	Cards []Card `json:"cards,omitempty"`
}

type Card struct {
	Header   *CardHeader `json:"header,omitempty"`
	Sections []Section   `json:"sections"`
}

type CardHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Section struct {
	Widgets []Widget `json:"widgets"`
}

type Widget struct {
	TextParagraph *TextParagraph `json:"textParagraph,omitempty"`
}

type TextParagraph struct {
	Text string `json:"text"`
}

// User-facing warning and error texts. Business rejections reuse these
// verbatim; they are replies, not errors.
const (
	WarnAlreadyCheckedIn   = "⚠️ 이미 오늘 출근 처리가 되어 있습니다."
	WarnAlreadyCheckedOut  = "⚠️ 이미 퇴근하셨습니다."
	WarnCheckedOutToday    = "⚠️ 이미 오늘 퇴근 처리가 되어 있습니다."
	WarnAlreadyOnBreak     = "⚠️ 이미 휴식 중입니다."
	WarnNoCheckIn          = "⚠️ 출근 기록이 없습니다. 먼저 출근 처리를 해주세요."
	WarnCheckOutWhileBreak = "⚠️ 휴식 중입니다. /출근 명령어로 업무를 재개한 후 퇴근해주세요."
	ErrGeneric             = "❌ 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

	greetingText = "안녕하세요! 출퇴근 관리 봇입니다. 👋\n\n사용 가능한 명령어:\n• `/출근` - 출근 처리\n• `/퇴근` - 퇴근 처리 및 근무 시간 계산\n• `/휴식` - 휴식 시작 (다시 `/출근`으로 업무 재개)"
)

// TextMessage wraps a plain string in an outbound message.
func TextMessage(text string) Message {
	return Message{Text: text}
}

// Greeting is the reply to ADDED_TO_SPACE events.
func Greeting() Message {
	return TextMessage(greetingText)
}

// DailyScrumReminder builds the scheduled scrum reminder card.
func DailyScrumReminder() Message {
	return Message{
		Cards: []Card{
			{
				Header: &CardHeader{
					Title:    "📋 데일리 스크럼 알림",
					Subtitle: "오늘의 스크럼을 작성해주세요!",
				},
				Sections: []Section{
					{
						Widgets: []Widget{
							{
								TextParagraph: &TextParagraph{
									Text: "<b>안녕하세요!</b>\n\n오늘의 데일리 스크럼을 작성할 시간입니다.\n\n• 어제 한 일\n• 오늘 할 일\n• 이슈 사항",
								},
							},
						},
					},
				},
			},
		},
	}
}

// Formatter renders attendance confirmations with clock times in one fixed
// timezone, so replies read the same regardless of where the server runs.
type Formatter struct {
	loc *time.Location
}

func NewFormatter(loc *time.Location) *Formatter {
	return &Formatter{loc: loc}
}

func (f *Formatter) clock(t time.Time) string {
	return t.In(f.loc).Format("15:04")
}

// CheckIn builds the check-in confirmation.
func (f *Formatter) CheckIn(userName string, ts time.Time) Message {
	return TextMessage(fmt.Sprintf("🟢 <b>%s</b>님이 %s에 출근하셨습니다.", userName, f.clock(ts)))
}

// CheckOut builds the check-out confirmation with the working-hours summary.
func (f *Formatter) CheckOut(userName string, ts time.Time, hours model.WorkingHoursResult) Message {
	return TextMessage(fmt.Sprintf("🔴 <b>%s</b>님이 %s에 퇴근하셨습니다. (근무 시간: %d시간 %d분)",
		userName, f.clock(ts), hours.WorkingHours, hours.WorkingMinutes))
}

// BreakStart builds the break-start confirmation.
func (f *Formatter) BreakStart(userName string, ts time.Time) Message {
	return TextMessage(fmt.Sprintf("⏸️ <b>%s</b>님이 %s에 휴식을 시작했습니다.", userName, f.clock(ts)))
}

// BreakEnd builds the resume confirmation.
func (f *Formatter) BreakEnd(userName string, ts time.Time) Message {
	return TextMessage(fmt.Sprintf("▶️ <b>%s</b>님이 %s에 업무를 재개했습니다.", userName, f.clock(ts)))
}
