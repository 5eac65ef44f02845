// Package server is the self-hosted journal API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"tableflip.dev/journal/pkg/auth"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/query"
)

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
	// Root is the bucket directory.
	Root string
	// Rate and Burst bound mutating requests per client IP. Zero Rate disables
	// the limit.
	Rate  float64
	Burst int
	// RequireAuth turns away mutating requests without an admin bearer token.
	RequireAuth bool
	Version     string
	// Location buckets entries by local date. Nil means time.Local.
	Location *time.Location
	// Quiet disables the request log.
	Quiet bool
}

// Server exposes the Fiber application.
type Server struct {
	app     *fiber.App
	bucket  *Bucket
	auth    *auth.Authenticator
	limiter *limiter
	cfg     Config
}

var allowedImages = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

// New wires handlers and middleware over the bucket at cfg.Root.
func New(cfg Config, authn *auth.Authenticator) (*Server, error) {
	bucket, err := NewBucket(cfg.Root, cfg.Location)
	if err != nil {
		return nil, err
	}
	if authn == nil {
		authn = auth.New("")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		BodyLimit:             32 << 20,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	if !cfg.Quiet {
		app.Use(logger.New(logger.Config{Format: "${time} | ${status} | ${latency} | ${method} ${path}\n"}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	srv := &Server{app: app, bucket: bucket, auth: authn, cfg: cfg}
	if cfg.Rate > 0 {
		srv.limiter = newLimiter(cfg.Rate, cfg.Burst)
	}
	srv.registerRoutes()
	return srv, nil
}

// App is the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Bucket is the storage the server writes to.
func (s *Server) Bucket() *Bucket {
	return s.bucket
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()
	if s.limiter != nil {
		go s.limiter.run(ctx, time.Minute)
	}

	log.Printf("journal: api listening on %s (root %s)", s.cfg.Addr, s.cfg.Root)
	return s.app.Listen(s.cfg.Addr)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, errMissingUser), errors.Is(err, errBadName):
		code = fiber.StatusBadRequest
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("journal: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) registerRoutes() {
	s.app.Static("/img", s.bucket.ImageDir())

	api := s.app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/data", s.guard, s.handleGetData)
	api.Post("/data", s.limit, s.guard, s.handlePostData)
	api.Post("/upload", s.limit, s.guard, s.handleUpload)
	api.Get("/entries", s.handleEntries)
	api.Get("/entries/:id/neighbor", s.handleNeighbor)
	api.Get("/map", s.handleMap)
}

func (s *Server) limit(c *fiber.Ctx) error {
	if s.limiter == nil {
		return c.Next()
	}
	return s.limiter.middleware()(c)
}

// guard requires an admin token when the server is configured to.
func (s *Server) guard(c *fiber.Ctx) error {
	if !s.cfg.RequireAuth {
		return c.Next()
	}
	data, err := s.bucket.Load(DefaultUser)
	if err != nil {
		return err
	}
	if !s.caller(c, data.Settings).IsAdmin {
		return fiber.NewError(fiber.StatusUnauthorized, "admin password required")
	}
	return c.Next()
}

// caller is admin when the bearer token unlocks settings.
func (s *Server) caller(c *fiber.Ctx, settings *entry.Settings) query.Caller {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		return query.Caller{}
	}
	return query.Caller{IsAdmin: s.auth.Check(settings, strings.TrimSpace(token))}
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	version := s.cfg.Version
	if version == "" {
		version = "dev"
	}
	return c.JSON(fiber.Map{"status": "online", "type": "go", "version": version})
}

func (s *Server) handleGetData(c *fiber.Ctx) error {
	switch action := c.Query("action"); action {
	case "", "load":
		data, err := s.bucket.Load(DefaultUser)
		if err != nil {
			return err
		}
		return c.JSON(data)
	case "list_backups":
		backups, err := s.bucket.Backups()
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"backups": backups})
	case "get_users":
		return c.JSON(fiber.Map{"users": s.bucket.Users()})
	case "get_user_data":
		data, err := s.bucket.Load(c.Query("userId"))
		if err != nil {
			return err
		}
		return c.JSON(data)
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown action %q", action))
	}
}

func (s *Server) handlePostData(c *fiber.Ctx) error {
	var p Payload
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}

	switch p.Action {
	case "", "save":
		if err := s.bucket.Save(DefaultUser, p); err != nil {
			return err
		}
	case "backup":
		name, err := s.bucket.Backup(DefaultUser)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "filename": name})
	case "restore":
		if err := s.bucket.Restore(DefaultUser, p.Filename); err != nil {
			return err
		}
	case "reset":
		if err := s.bucket.Reset(DefaultUser); err != nil {
			return err
		}
	case "save_users":
		if p.Users != nil {
			if err := s.bucket.SaveUsers(p.Users); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
	case "save_user_data":
		if err := s.bucket.Save(p.UserID, p); err != nil {
			return err
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown action")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no image attached")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if !allowedImages[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "invalid file type")
	}
	name := uuid.NewString() + "." + ext
	if err := c.SaveFile(fh, filepath.Join(s.bucket.ImageDir(), name)); err != nil {
		return fmt.Errorf("server: save upload: %w", err)
	}
	return c.JSON(fiber.Map{"url": imgDir + "/" + name})
}

// user loads the journal named by ?userId and works out who is asking.
func (s *Server) user(c *fiber.Ctx) (entry.AppData, query.Caller, error) {
	id := c.Query("userId", DefaultUser)
	data, err := s.bucket.Load(id)
	if err != nil {
		return entry.AppData{}, query.Caller{}, err
	}
	return data, s.caller(c, data.Settings), nil
}

func (s *Server) queryOptions(c *fiber.Ctx, data entry.AppData, caller query.Caller) (query.Options, error) {
	p := query.Params{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		View:     c.Query("view"),
		Mood:     c.Query("mood"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		HasPhoto: c.QueryBool("hasPhoto", false),
	}
	loc := s.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	o, err := p.Options(data.Settings.Configs(), caller, time.Now().In(loc))
	if err != nil {
		return query.Options{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return o, nil
}

func redactAll(entries []*entry.Entry, caller query.Caller) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, query.Redact(e, caller))
	}
	return out
}

func (s *Server) handleEntries(c *fiber.Ctx) error {
	data, caller, err := s.user(c)
	if err != nil {
		return err
	}
	o, err := s.queryOptions(c, data, caller)
	if err != nil {
		return err
	}
	entries := redactAll(query.Query(data.Entries, o), caller)
	return c.JSON(fiber.Map{"data": entries, "meta": fiber.Map{"count": len(entries)}})
}

func (s *Server) handleNeighbor(c *fiber.Ctx) error {
	dir, err := query.ParseDirection(c.Query("direction", string(query.Next)))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	data, caller, err := s.user(c)
	if err != nil {
		return err
	}
	o, err := s.queryOptions(c, data, caller)
	if err != nil {
		return err
	}
	n := query.Neighbor(query.Query(data.Entries, o), c.Params("id"), dir)
	if n == nil {
		return fiber.NewError(fiber.StatusNotFound, "no neighbor")
	}
	return c.JSON(fiber.Map{"data": query.Redact(n, caller)})
}

func (s *Server) handleMap(c *fiber.Ctx) error {
	data, caller, err := s.user(c)
	if err != nil {
		return err
	}
	live := query.Query(data.Entries, query.Options{View: query.ViewAtlas, Caller: caller})
	points := query.MapPoints(live, caller)
	return c.JSON(fiber.Map{"data": points, "meta": fiber.Map{"count": len(points)}})
}
