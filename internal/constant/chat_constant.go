package constant

// Message roles
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// Route classes for rate limiting
const (
	RouteClassDefault = "default"
	RouteClassAuth    = "auth"
	RouteClassAdmin   = "admin"
)

// Error codes returned in the response envelope
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeSessionOwnership = "SESSION_OWNERSHIP"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeStorage          = "STORAGE_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
)

// SessionTitleTopic is the in-process topic carrying title requests for
// freshly named sessions.
const SessionTitleTopic = "chat.session.title"

// Languages
const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// User-facing texts for pipeline short-circuits. Provider-terminal texts are
// shown verbatim to the user (not treated as system faults); redirect texts
// ask the caller to finish their profile before chatting.
const (
	ProfileRedirectURL = "/profile"

	ProfileMissingZh    = "请先创建您的个人资料，以便我们能为您提供个性化服务。"
	ProfileMissingEn    = "Please create your profile first so we can personalize the conversation."
	ProfileIncompleteZh = "请先完善您的个人资料，以便我更好地为您提供服务。"
	ProfileIncompleteEn = "Please complete your profile first so I can serve you better."

	InsufficientBalanceZh = "API账户余额不足，无法生成回复。"
	InsufficientBalanceEn = "The API account has insufficient balance."
	ProviderAuthFailedZh  = "AI服务认证失败，请联系管理员。"
	ProviderAuthFailedEn  = "Authentication with the AI service failed. Please contact the administrator."
)

// ProfileRedirectMessage picks the localized completion prompt.
func ProfileRedirectMessage(language string, missing bool) string {
	if language == LanguageEnglish {
		if missing {
			return ProfileMissingEn
		}
		return ProfileIncompleteEn
	}
	if missing {
		return ProfileMissingZh
	}
	return ProfileIncompleteZh
}

// ProviderTerminalMessage maps a terminal reason to its user-visible text.
func ProviderTerminalMessage(reason, language string) string {
	en := language == LanguageEnglish
	switch reason {
	case "insufficient_balance":
		if en {
			return InsufficientBalanceEn
		}
		return InsufficientBalanceZh
	default:
		if en {
			return ProviderAuthFailedEn
		}
		return ProviderAuthFailedZh
	}
}
