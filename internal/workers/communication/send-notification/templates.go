// internal/workers/communication/send-notification/templates.go
package sendnotification

import (
	"fmt"
	"regexp"
	"strings"

	"onboarding-workers/internal/models"
)

type template struct {
	title   string
	message string
}

var defaultTemplates = map[models.NotificationType]template{
	models.NotificationMatchFound: {
		title:   "New match: {{partnerName}}",
		message: "{{partnerName}} matches your requirements with a score of {{score}}.",
	},
	models.NotificationPartnershipRequest: {
		title:   "Partnership update from {{partnerName}}",
		message: "Your match with {{partnerName}} is now {{status}}.",
	},
	models.NotificationCertificationUpdate: {
		title:   "Certification update",
		message: "{{companyName}} certification status: {{certificationStatus}}.",
	},
	models.NotificationSystemUpdate: {
		title:   "Account update",
		message: "{{message}}",
	},
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// render fills {{key}} placeholders from data. Unknown keys render empty.
func render(tmpl string, data map[string]interface{}) string {
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		v, ok := data[key]
		if !ok || v == nil {
			return ""
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	})
	return strings.TrimSpace(out)
}
