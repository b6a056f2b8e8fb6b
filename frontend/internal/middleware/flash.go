package middleware

import (
	"encoding/base64"
	"net/http"
)

const (
	FlashError   = "flash_error"
	FlashSuccess = "flash_success"

	flashMaxAge = 300
)

// SetFlash stores a one-shot message for the next page view. The value is
// base64 encoded so any text survives the cookie.
func SetFlash(w http.ResponseWriter, name, message string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.StdEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads the message and expires the cookie.
func PopFlash(w http.ResponseWriter, r *http.Request, name string, secure bool) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// RedirectWithFlash is the usual answer to a form post.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, url, name, message string, secure bool) {
	SetFlash(w, name, message, secure)
	http.Redirect(w, r, url, http.StatusSeeOther)
}
