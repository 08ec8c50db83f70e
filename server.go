package main

import (
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/funny-falcon/sieve32/alloc"
	"github.com/funny-falcon/sieve32/sieve"
)

func serveAction(c *cli.Context) error {
	srv := NewServer(allocator(c))
	port := c.String(portFlag.Name)
	log.WithField("port", port).Info("Listening")
	return fasthttp.ListenAndServe(":"+port, srv.Handler)
}

// Server answers counting queries one at a time: a sweep owns its working
// set and the allocator budget is shared.
type Server struct {
	sync.Mutex
	Alloc   alloc.Allocator
	metrics fasthttp.RequestHandler
}

func NewServer(al alloc.Allocator) *Server {
	return &Server{
		Alloc:   al,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
	}
}

func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		return
	}
	switch string(ctx.Path()) {
	case "/count":
		s.doCount(ctx)
	case "/metrics":
		s.metrics(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *Server) doCount(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	bound, err := strconv.ParseUint(string(args.Peek("bound")), 10, 32)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}
	name := string(args.Peek("algorithm"))
	if name == "" {
		name = sieve.NameRecompute
	}
	counter, err := sieve.ByName(name, sieve.WithAllocator(s.Alloc))
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}

	s.Lock()
	res, err := run(counter, uint32(bound))
	s.Unlock()
	if err != nil {
		log.WithError(err).Warn("Count failed")
		if errors.Is(err, alloc.ErrNoMemory) {
			ctx.SetStatusCode(fasthttp.StatusInsufficientStorage)
		} else {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		}
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	ctx.SetBody(res.JSON())
}
