// Package mockserver is an in-memory stand-in for the media server's HTTP
// API, covering the endpoint families the client consumes: login and
// session auth, catalog listing, the user-movie-info and user-show-info
// watch-record families, and aggregate ratings. Integration tests run the
// client against it; it is not a production server.
package mockserver

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"streamhub/internal/shared"
)

// Request/response payloads mirroring the real server's auth endpoints.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// User is a login account known to the fake server.
type User struct {
	ID       string
	Email    string
	Password string
	Token    string
}

type Server struct {
	engine *gin.Engine

	mu      sync.Mutex
	users   []User
	items   []shared.CatalogItem
	records map[shared.RecordKind]map[string]*shared.WatchRecord // by record id

	// Counters for asserting call patterns in tests.
	CreateCalls int
	UpdateCalls int
	LookupCalls int

	// FailCreates / FailUpdates make the corresponding endpoints answer
	// 500, for exercising the client's degradation paths.
	FailCreates bool
	FailUpdates bool
}

func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		engine: gin.New(),
		records: map[shared.RecordKind]map[string]*shared.WatchRecord{
			shared.KindMovie: {},
			shared.KindShow:  {},
		},
	}
	s.routes()
	return s
}

// Handler exposes the server for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

func (s *Server) AddItems(items ...shared.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// SeedRecord installs an existing watch record and returns its id.
func (s *Server) SeedRecord(kind shared.RecordKind, record shared.WatchRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.RecordID == "" {
		record.RecordID = uuid.NewString()
	}
	s.records[kind][record.RecordID] = &record
	return record.RecordID
}

// Record fetches a stored record by id for assertions.
func (s *Server) Record(kind shared.RecordKind, recordID string) *shared.WatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[kind][recordID]
	if !ok {
		return nil
	}
	copied := *r
	return &copied
}

// RecordCount reports how many records exist for a kind.
func (s *Server) RecordCount(kind shared.RecordKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[kind])
}

func (s *Server) routes() {
	s.engine.POST("/users/login", s.login)
	s.engine.POST("/users/auth-session", s.authSession)
	s.engine.GET("/Items", s.listItems)

	for _, kind := range []shared.RecordKind{shared.KindMovie, shared.KindShow} {
		path := "user-movie-info"
		if kind == shared.KindShow {
			path = "user-show-info"
		}
		k := kind
		s.engine.GET("/api/"+path+"/:user_id/:media_id", func(c *gin.Context) { s.getRecord(c, k) })
		s.engine.POST("/api/"+path, func(c *gin.Context) { s.createRecord(c, k) })
		s.engine.PUT("/api/"+path+"/:record_id", func(c *gin.Context) { s.updateRecord(c, k) })
		s.engine.GET("/api/ratings/"+string(kind)+"/:media_id", func(c *gin.Context) { s.communityRating(c, k) })
	}
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email && u.Password == req.Password {
			c.JSON(http.StatusOK, gin.H{"token": u.Token, "userID": u.ID})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
}

func (s *Server) authSession(c *gin.Context) {
	var req authSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Token == req.Token && req.Token != "" {
			c.JSON(http.StatusOK, gin.H{"userId": u.ID})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
}

func (s *Server) listItems(c *gin.Context) {
	itemType := c.Query("type")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		if itemType == "" || item.Type == itemType {
			out = append(out, item)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getRecord(c *gin.Context, kind shared.RecordKind) {
	userID := c.Param("user_id")
	mediaID := c.Param("media_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.LookupCalls++
	for _, r := range s.records[kind] {
		if r.UserID == userID && r.MediaItemID == mediaID {
			c.JSON(http.StatusOK, r)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
}

func (s *Server) createRecord(c *gin.Context, kind shared.RecordKind) {
	var record shared.WatchRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.FailCreates {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create disabled"})
		return
	}

	record.RecordID = uuid.NewString()
	s.records[kind][record.RecordID] = &record
	c.JSON(http.StatusCreated, gin.H{"inserted_id": record.RecordID})
}

func (s *Server) updateRecord(c *gin.Context, kind shared.RecordKind) {
	recordID := c.Param("record_id")

	var record shared.WatchRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.FailUpdates {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update disabled"})
		return
	}

	existing, ok := s.records[kind][recordID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	// Full replace: identity fields stay, everything else is overwritten.
	record.RecordID = existing.RecordID
	record.UserID = existing.UserID
	record.MediaItemID = existing.MediaItemID
	s.records[kind][recordID] = &record
	c.JSON(http.StatusOK, gin.H{"message": "record updated"})
}

func (s *Server) communityRating(c *gin.Context, kind shared.RecordKind) {
	mediaID := c.Param("media_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	var sum, count int
	for _, r := range s.records[kind] {
		if r.MediaItemID == mediaID && r.UserRating != nil {
			sum += *r.UserRating
			count++
		}
	}

	if count == 0 {
		c.JSON(http.StatusOK, gin.H{"average": nil})
		return
	}
	average := float64(sum) / float64(count)
	c.JSON(http.StatusOK, gin.H{"average": average})
}
