package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/ledger-bot/internal/models"
)

// timestampLayout renders like the vi-VN locale: time first, then day/month/year.
const timestampLayout = "15:04:05 2/1/2006"

// unknownServerError stands in for a rejection that carried no message.
const unknownServerError = "Unknown error"

const (
	actionMenuText   = "🎯 <b>Bạn muốn làm gì tiếp theo?</b> Hãy chọn một trong các mục bên dưới nhé! 👇"
	deleteSuccessMsg = "🗑️ <b>Dữ liệu đã được xóa thành công!</b> 🚀"
	genericErrorMsg  = "⚠️ <b>Oops! Đã có lỗi xảy ra.</b> Vui lòng thử lại sau nhé! 😢"
	remainingFailMsg = "❌ Không thể tính tổng số tiền còn lại. Vui lòng kiểm tra dữ liệu từ server."

	usageExamples = `📝 <b>Ví dụ:</b>
- <code>15k ăn sáng</code> (tiền ra)
- <code>+7 triệu tiền lương</code> (tiền vào)
- <code>tổng chi</code> (tính tổng chi tiêu)
- <code>tổng thu</code> (tính tổng thu nhập)
- <code>tổng còn lại</code> (tính tổng số tiền còn lại)`

	invalidSyntaxMsg = "❌ <b>Cú pháp không hợp lệ!</b>\n\n" + usageExamples
	helpMsg          = "📚 <b>Hướng dẫn sử dụng</b>\n\n" + usageExamples
)

// Button labels of the action menu.
const (
	buttonTotalExpense   = "📉 Tổng chi"
	buttonTotalIncome    = "📈 Tổng thu"
	buttonTotalRemaining = "💰 Tổng còn lại"
	buttonDeleteAll      = "🗑️ Xóa dữ liệu"
)

// failedOperation names what a rejection message refers to.
type failedOperation string

const (
	failedRecord  failedOperation = "ghi nhận giao dịch"
	failedExpense failedOperation = "tính tổng chi tiêu"
	failedIncome  failedOperation = "tính tổng thu nhập"
	failedDelete  failedOperation = "xóa dữ liệu"
)

// FormatAmount renders a number the way the vi-VN locale does: dots group
// thousands, a comma separates at most three fraction digits.
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(3)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	intPart := rounded.Truncate(0)
	grouped := strings.ReplaceAll(humanize.BigComma(intPart.BigInt()), ",", ".")

	frac := rounded.Sub(intPart)
	if frac.IsZero() {
		return sign + grouped
	}

	return sign + grouped + "," + strings.TrimPrefix(frac.String(), "0.")
}

// FormatRecordedAmount renders a parsed amount, or "NaN" when it had no digits.
func FormatRecordedAmount(a models.Amount) string {
	if !a.Valid {
		return "NaN"
	}
	return FormatAmount(a.Value)
}

// FormatTimestamp renders a transaction timestamp. Callers pass t in the ledger timezone.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func formatVND(d decimal.Decimal) string {
	return FormatAmount(d) + " " + models.Currency
}

func confirmationText(record models.TransactionRecord) string {
	return fmt.Sprintf(`✅ <b>Ghi nhận thành công!</b>

📝 <b>Chi tiết:</b>
- 💵 <b>Số tiền</b>: %s %s
- 🗂️ <b>Loại</b>: %s
- ✍️ <b>Ghi chú</b>: %s
- 🕒 <b>Thời gian</b>: %s`,
		FormatRecordedAmount(record.Amount), models.Currency,
		html.EscapeString(string(record.Direction)),
		html.EscapeString(record.Note),
		html.EscapeString(record.Timestamp),
	)
}

func expenseSummaryText(month time.Month, total decimal.Decimal) string {
	return fmt.Sprintf("📉 <b>Tổng chi tiêu tháng %d:</b>\n💵 %s", int(month), formatVND(total))
}

func incomeSummaryText(month time.Month, total decimal.Decimal) string {
	return fmt.Sprintf("📈 <b>Tổng thu nhập tháng %d:</b>\n💵 %s", int(month), formatVND(total))
}

func remainingText(month time.Month, r models.RemainingSummary) string {
	return fmt.Sprintf(`💰 <b>Tổng tiền còn lại tháng %d:</b>

📈 <b>Tổng thu</b>: %s
📉 <b>Tổng chi</b>: %s
💵 <b>Số tiền còn lại</b>: %s`,
		int(month),
		formatVND(r.Income),
		formatVND(r.Expense),
		formatVND(r.Balance()),
	)
}

func rejectionText(op failedOperation, serverMessage string) string {
	if serverMessage == "" {
		serverMessage = unknownServerError
	}
	return fmt.Sprintf("❌ Không thể %s. Phản hồi từ server: <b>%s</b>", op, html.EscapeString(serverMessage))
}

func greetingText(senderName string) string {
	greeting := "👋 Xin chào"
	if senderName != "" {
		greeting += " " + html.EscapeString(senderName)
	}
	return greeting + "!\n\nMình sẽ giúp bạn ghi chép thu chi hằng ngày.\n\n" + usageExamples
}

// actionMenuKeyboard is the button grid offered after a recorded transaction.
func actionMenuKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: buttonTotalExpense, CallbackData: string(models.SummaryTotalExpense)},
				{Text: buttonTotalIncome, CallbackData: string(models.SummaryTotalIncome)},
			},
			{
				{Text: buttonTotalRemaining, CallbackData: string(models.SummaryTotalRemaining)},
			},
			{
				{Text: buttonDeleteAll, CallbackData: models.ActionDeleteAll},
			},
		},
	}
}
