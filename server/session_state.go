package server

import (
	"github.com/gin-gonic/gin"
	gosession "github.com/go-session/session/v3"

	"github.com/saracristina-sh3/auth-suite-sub000/session"
)

// sessionState adapts a go-session store to the session.State interface the
// manager and support controller operate on.
type sessionState struct {
	store gosession.Store
}

func (s sessionState) Get(key string) (interface{}, bool) { return s.store.Get(key) }
func (s sessionState) Set(key string, value interface{})  { s.store.Set(key, value) }
func (s sessionState) Delete(key string)                  { s.store.Delete(key) }
func (s sessionState) Save() error                        { return s.store.Save() }

// startSession opens (or resumes) the request's server-side session.
func startSession(c *gin.Context) (session.State, error) {
	store, err := gosession.Start(c.Request.Context(), c.Writer, c.Request)
	if err != nil {
		return nil, err
	}
	return sessionState{store: store}, nil
}
