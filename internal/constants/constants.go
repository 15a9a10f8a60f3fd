package constants

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the request context.
const ContextKeyUserID = "user_id"

// ContextKeyUserRole is the key under which the authenticated user's role is
// stored in the request context.
const ContextKeyUserRole = "user_role"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "pm_session"

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// RecentEntityLimit is how many recently created users/projects the admin
// dashboard returns.
const RecentEntityLimit = 5

// MaxAIGeneratedTasks caps how many suggestions the AI endpoint will accept
// from a single completion.
const MaxAIGeneratedTasks = 20
