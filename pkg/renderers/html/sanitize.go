package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	noticePolicyOnce sync.Once
	noticePolicy     *bluemonday.Policy
)

// sanitizeNotice keeps the inline formatting a notice may carry and strips
// everything else.
func sanitizeNotice(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(noticeSanitizer().Sanitize(trimmed))
}

func noticeSanitizer() *bluemonday.Policy {
	noticePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "code", "br", "span")
		policy.AllowAttrs("class").OnElements("span")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		noticePolicy = policy
	})
	return noticePolicy
}
