package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/permission"
	"github.com/saracristina-sh3/auth-suite-sub000/session"
	"github.com/saracristina-sh3/auth-suite-sub000/store"
	"github.com/saracristina-sh3/auth-suite-sub000/token"
)

// Server wires the stores and services behind the HTTP surface.
type Server struct {
	cfg *AppConfig
	log *zap.Logger
	db  *gorm.DB

	users       *store.UserStore
	autarquias  *store.AutarquiaStore
	modulos     *store.ModuloStore
	memberships *store.MembershipStore
	permissions *store.PermissionStore

	perms    *permission.Service
	issuer   *token.Issuer
	sessions *session.Manager
	support  *session.Controller
}

// New builds a Server from configuration: opens the database, connects the
// Valkey token registry and constructs every service.
func New(cfg *AppConfig, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := cfg.DBDSN()
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not configured (AUTH_DATABASE__DSN)")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	registry, err := store.NewValkeyTokenRegistry(cfg.ValkeyAddr(), cfg.Valkey.Prefix)
	if err != nil {
		return nil, fmt.Errorf("connect valkey: %w", err)
	}
	secret := cfg.TokenSecret()
	if secret == "" {
		return nil, fmt.Errorf("token secret not configured (AUTH_TOKEN__SECRET)")
	}

	s := &Server{cfg: cfg, log: log, db: db}
	s.users = store.NewUserStore(db)
	s.autarquias = store.NewAutarquiaStore(db)
	s.modulos = store.NewModuloStore(db)
	s.memberships = store.NewMembershipStore(db)
	s.permissions = store.NewPermissionStore(db)
	s.perms = permission.NewService(s.permissions, s.modulos)
	s.issuer = token.NewIssuer(s.users, registry, []byte(secret), cfg.Token.AccessTTL(), cfg.Token.RefreshTTL(), log)
	s.sessions = session.NewManager(s.autarquias, s.memberships, s.users)
	s.support = session.NewController(s.sessions, s.issuer, s.users)
	return s, nil
}

// NewWithDeps builds a Server from already-constructed dependencies.
// Used by tests and by callers that manage their own connections.
func NewWithDeps(cfg *AppConfig, log *zap.Logger, db *gorm.DB, registry token.Registry, secret []byte) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, log: log, db: db}
	s.users = store.NewUserStore(db)
	s.autarquias = store.NewAutarquiaStore(db)
	s.modulos = store.NewModuloStore(db)
	s.memberships = store.NewMembershipStore(db)
	s.permissions = store.NewPermissionStore(db)
	s.perms = permission.NewService(s.permissions, s.modulos)
	s.issuer = token.NewIssuer(s.users, registry, secret, cfg.Token.AccessTTL(), cfg.Token.RefreshTTL(), log)
	s.sessions = session.NewManager(s.autarquias, s.memberships, s.users)
	s.support = session.NewController(s.sessions, s.issuer, s.users)
	return s
}

// Run starts the HTTP listener.
func (s *Server) Run() error {
	r := NewGinEngine(s)
	s.log.Info("listening", zap.String("addr", s.cfg.Listen))
	return r.Run(s.cfg.Listen)
}

func serverError(c *gin.Context, err error) {
	c.JSON(500, gin.H{"error": "server_error", "error_description": err.Error()})
}
