package authentication

// KeyString holds the key strings used for the locally persisted session, on the client side.
import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
)

const (
	serviceName = "streamhub-cli"
	sessionKey  = "session"
)

// StoredSession is the client-side session state read once at startup to
// attempt silent login. DeviceID is generated on first login and reused
// for the lifetime of the install.
type StoredSession struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	DeviceID string `json:"device_id"`
}

func StoreSession(session *StoredSession) error {
	if session.DeviceID == "" {
		session.DeviceID = uuid.NewString()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

func GetSession() (*StoredSession, error) {
	value, err := keyring.Get(serviceName, sessionKey)
	if err != nil {
		return nil, err
	}

	var session StoredSession
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func DeleteSession() error {
	return keyring.Delete(serviceName, sessionKey)
}

// TokenExpired reports whether the stored token's exp claim has passed.
// The signature is not verified here; the server does that. A token
// without an exp claim, or one that does not parse, is treated as usable
// so the auth-session call still gets a chance to decide.
func TokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
