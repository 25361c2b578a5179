package server

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goupdate/deadlock"

	"github.com/MasterDimmy/zipologger"

	"github.com/goupdate/probemap/nested"
	"github.com/valyala/fasthttp"
)

// Server exposes named arenas of nested tables over HTTP. The arena
// itself is single threaded, the server lock is the one boundary that
// serializes access to it.
type Server struct {
	deadlock.RWMutex

	arena *nested.Arena[string]
	roots map[string]nested.Handle

	srv *fasthttp.Server

	logsLevel int //0 = OFF, 1=CALLS, 2=CALLS+DATA
	log       *zipologger.Logger
}

func (s *Server) Shutdown() {
	if s.srv != nil {
		s.srv.Shutdown()
	}
}

func New() *Server {
	arena := nested.NewArena[string]()

	log := zipologger.NewLogger("./logs/server_api.log", 5, 5, 5, false)

	server := &Server{
		arena: arena,
		roots: make(map[string]nested.Handle),
		log:   log,
	}

	router := fasthttp.RequestHandler(func(ctx *fasthttp.RequestCtx) {
		defer zipologger.HandlePanic()

		switch string(ctx.Path()) {
		case "/api/clear":
			server.handleClear(ctx, arena)
		case "/api/create":
			server.handleCreate(ctx, arena)
		case "/api/child":
			server.handleChild(ctx, arena)
		case "/api/put":
			server.handlePut(ctx, arena)
		case "/api/get":
			server.handleGet(ctx, arena)
		case "/api/resolve":
			server.handleResolve(ctx, arena)
		case "/api/incr":
			server.handleIncr(ctx, arena)
		case "/api/stats":
			server.handleStats(ctx, arena)
		default:
			ctx.Error("Unsupported path", fasthttp.StatusNotFound)
		}
	})

	server.srv = &fasthttp.Server{Handler: router}
	return server
}

func (s *Server) SetLogger(log *zipologger.Logger) {
	s.log = log
}

func (s *Server) GetFasthttpServer() *fasthttp.Server {
	return s.srv
}

// GetArena returns the shared arena. Take the server lock around any use.
func (s *Server) GetArena() *nested.Arena[string] {
	return s.arena
}

func (s *Server) respondWithError(ctx *fasthttp.RequestCtx, message string) {
	s.logAction(ctx, "ERROR "+message)

	ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	ctx.SetBodyString(message)
}

func (s *Server) respondWithSuccess(ctx *fasthttp.RequestCtx, response interface{}) {
	s.logAction(ctx, response)

	ctx.SetStatusCode(fasthttp.StatusOK)
	if response != nil {
		body, _ := json.Marshal(response)
		ctx.SetBody(body)
	}
}

// l = 0=OFF,1=URL,2=DATA
func (s *Server) SetLoggingLevel(l int) {
	s.logsLevel = l
}

func (s *Server) logAction(ctx *fasthttp.RequestCtx, response ...interface{}) {
	if s.log == nil {
		return
	}
	switch s.logsLevel {
	case 0:
		return
	case 1:
		s.log.Printf("%s : %s", ctx.RemoteIP().String(), string(ctx.Request.URI().Path()))
	case 2:
		s.log.Printf("%s : %s [%s]", ctx.RemoteIP().String(), string(ctx.Request.URI().Path()), string(ctx.PostBody()))
	default:
		s.log.Printf("%s : %s [%s]", ctx.RemoteIP().String(), string(ctx.Request.URI().Path()), string(ctx.PostBody()))
		if len(response) > 0 {
			ret := ""
			for _, r := range response {
				if r != nil {
					ret += fmt.Sprintf("%+v ", r)
				}
			}
			s.log.Printf("%s", ret)
		}
	}
}

func (s *Server) handleClear(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	s.Lock()
	defer s.Unlock()

	arena.Reset()
	clear(s.roots)
	s.respondWithSuccess(ctx, nil)
}

func (s *Server) handleCreate(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	var req struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	if req.Name == "" {
		s.respondWithError(ctx, "table name required")
		return
	}

	s.Lock()
	defer s.Unlock()

	if _, exists := s.roots[req.Name]; exists {
		s.respondWithError(ctx, "table already exists: "+req.Name)
		return
	}
	h, err := arena.NewTable(req.Capacity)
	if err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	s.roots[req.Name] = h
	s.respondWithSuccess(ctx, map[string]nested.Handle{"handle": h})
}

func (s *Server) handleChild(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	var req struct {
		Name     string   `json:"name"`
		Path     []string `json:"path"`
		Key      string   `json:"key"`
		Capacity int      `json:"capacity"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}

	s.Lock()
	defer s.Unlock()

	root, ok := s.roots[req.Name]
	if !ok {
		s.respondWithError(ctx, "unknown table: "+req.Name)
		return
	}
	parent := root
	if len(req.Path) > 0 {
		v, err := arena.GetPath(root, req.Path...)
		if err != nil {
			s.respondWithError(ctx, err.Error())
			return
		}
		h, ok := v.(nested.Handle)
		if !ok {
			s.respondWithError(ctx, "path does not end at a table")
			return
		}
		parent = h
	}
	child, err := arena.NewTable(req.Capacity)
	if err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	if err := arena.Link(parent, req.Key, child); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	s.respondWithSuccess(ctx, map[string]nested.Handle{"handle": child})
}

func (s *Server) handlePut(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	var req struct {
		Name  string   `json:"name"`
		Path  []string `json:"path"`
		Key   string   `json:"key"`
		Value int64    `json:"value"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}

	s.Lock()
	defer s.Unlock()

	root, ok := s.roots[req.Name]
	if !ok {
		s.respondWithError(ctx, "unknown table: "+req.Name)
		return
	}
	if err := arena.PutPath(root, req.Value, append(req.Path, req.Key)...); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	s.respondWithSuccess(ctx, nil)
}

func (s *Server) handleGet(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	var req struct {
		Name string   `json:"name"`
		Path []string `json:"path"`
		Key  string   `json:"key"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}

	s.RLock()
	defer s.RUnlock()

	root, ok := s.roots[req.Name]
	if !ok {
		s.respondWithError(ctx, "unknown table: "+req.Name)
		return
	}
	tab, err := arena.TableAt(root, req.Path...)
	if err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	v, found := tab.Get(req.Key)
	if !found {
		// an absent terminal is a result, not an error
		s.respondWithSuccess(ctx, map[string]interface{}{"found": false})
		return
	}
	s.respondWithSuccess(ctx, map[string]interface{}{"found": true, "value": v})
}

func (s *Server) handleResolve(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	var req struct {
		Name string   `json:"name"`
		Path []string `json:"path"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}

	s.RLock()
	defer s.RUnlock()

	root, ok := s.roots[req.Name]
	if !ok {
		s.respondWithError(ctx, "unknown table: "+req.Name)
		return
	}
	v, err := arena.GetPath(root, req.Path...)
	if err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	s.respondWithSuccess(ctx, map[string]interface{}{"value": v})
}

func (s *Server) handleIncr(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	var req struct {
		Name  string   `json:"name"`
		Path  []string `json:"path"`
		Delta int64    `json:"delta"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}

	s.Lock()
	defer s.Unlock()

	root, ok := s.roots[req.Name]
	if !ok {
		s.respondWithError(ctx, "unknown table: "+req.Name)
		return
	}
	v, err := arena.AddInt(root, req.Delta, req.Path...)
	if err != nil {
		s.respondWithError(ctx, err.Error())
		return
	}
	s.respondWithSuccess(ctx, map[string]int64{"value": v})
}

// TableStat describes one named root table in a stats response.
type TableStat struct {
	Name   string        `json:"name"`
	Handle nested.Handle `json:"handle"`
	Len    int           `json:"len"`
	Cap    int           `json:"cap"`
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx, arena *nested.Arena[string]) {
	s.RLock()
	defer s.RUnlock()

	names := make([]string, 0, len(s.roots))
	for name := range s.roots {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := make([]TableStat, 0, len(names))
	for _, name := range names {
		h := s.roots[name]
		tab, err := arena.Table(h)
		if err != nil {
			continue
		}
		stats = append(stats, TableStat{Name: name, Handle: h, Len: tab.Len(), Cap: tab.Cap()})
	}
	s.respondWithSuccess(ctx, map[string]interface{}{"tables": stats, "arena": arena.Len()})
}
