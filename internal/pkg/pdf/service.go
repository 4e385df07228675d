// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl: template.Must(template.New("notice").Funcs(template.FuncMap{
			"money": FormatMoney,
			"inc":   func(i int) int { return i + 1 },
		}).Parse(noticeTemplate)),
	}
}

// NoticeData represents the data passed to the payment notice template
type NoticeData struct {
	Order    *order.Draft    `json:"order"`
	Deadline string          `json:"deadline"`
	Bank     config.BankInfo `json:"bank"`
	IssuedAt string          `json:"issued_at"`
	Center   string          `json:"center"`
}

// GeneratePaymentNotice renders the bank transfer notice of a submitted order
func (s *Service) GeneratePaymentNotice(data NoticeData) (*bytes.Buffer, error) {
	if data.Center == "" {
		data.Center = s.config.App.Name
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Encoding.Set("utf-8")

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data NoticeData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// FormatMoney renders a whole-unit amount as NT$1,234
func FormatMoney(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + "NT$" + string(out)
}

const noticeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Payment Notice {{.Order.OrderID}}</title>
    <style>
        body { font-family: "Noto Sans TC", Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 16px; margin-bottom: 24px; }
        .title { font-size: 26px; font-weight: bold; color: #2563eb; }
        .section-title { font-size: 16px; font-weight: bold; margin: 20px 0 8px; color: #374151; }
        table { width: 100%; border-collapse: collapse; }
        .items th, .items td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .items th { background-color: #f8f9fa; }
        .num { text-align: right; }
        .bank td { padding: 6px 0; }
        .bank .label { font-weight: bold; width: 160px; }
        .total-row td { font-size: 18px; font-weight: bold; border-top: 2px solid #333; }
        .deadline { margin-top: 20px; padding: 12px; background-color: #fef3c7; color: #92400e; }
        .footer { margin-top: 40px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Center}}: Payment Notice</div>
        <p><strong>Order #:</strong> {{.Order.OrderID}}</p>
        <p><strong>Issued:</strong> {{.IssuedAt}}</p>
    </div>

    <div class="section-title">Courses</div>
    <table class="items">
        <thead>
            <tr>
                <th>Course</th>
                <th>Session</th>
                <th>Location</th>
                <th class="num">Persons</th>
                <th class="num">Amount</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.CourseName}}</td>
                <td>{{.SessionDate}}</td>
                <td>{{.Location}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .Subtotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table>
        <tr><td class="num">Subtotal:</td><td class="num">{{money .Order.Subtotal}}</td></tr>
        {{if .Order.HasDiscount}}
        <tr><td class="num">Group discount:</td><td class="num">-{{money .Order.DiscountAmount}}</td></tr>
        {{end}}
        <tr class="total-row"><td class="num">Amount due:</td><td class="num">{{money .Order.Total}}</td></tr>
    </table>

    <div class="section-title">Registrants</div>
    <table class="items">
        <thead><tr><th>#</th><th>Name</th><th>National ID</th></tr></thead>
        <tbody>
            {{range $i, $r := .Order.Registrants}}
            <tr><td>{{inc $i}}</td><td>{{$r.Name}}</td><td>{{$r.NationalIDMasked}}</td></tr>
            {{end}}
        </tbody>
    </table>

    <div class="section-title">Transfer To</div>
    <table class="bank">
        <tr><td class="label">Bank:</td><td>{{.Bank.BankName}} ({{.Bank.BankCode}})</td></tr>
        <tr><td class="label">Branch:</td><td>{{.Bank.Branch}}</td></tr>
        <tr><td class="label">Account number:</td><td>{{.Bank.AccountNumber}}</td></tr>
        <tr><td class="label">Account name:</td><td>{{.Bank.AccountName}}</td></tr>
    </table>

    <div class="deadline">Please complete the transfer by <strong>{{.Deadline}}</strong> and report it with the last 5 digits of your account.</div>

    <div class="footer">
        <p>Seats are held until the payment deadline.</p>
    </div>
</body>
</html>
`
