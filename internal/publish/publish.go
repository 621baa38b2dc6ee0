package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/ardublockgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	DefaultNamespace = "/"
	DefaultEvent     = "sketch"
	DefaultAckEvent  = "sketch:ack"
	DefaultTimeout   = 10 * time.Second
)

var ErrTimeout = errors.New("publish timed out")

// Options configures one publish call. Zero fields take the defaults above.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Sketch is the payload emitted to the endpoint.
type Sketch struct {
	Board  string `json:"board"`
	Source string `json:"source"`
}

// Receipt carries whatever the endpoint sent back with its acknowledgement.
type Receipt struct {
	Response any
}

type outcome struct {
	receipt *Receipt
	err     error
}

// normalize fills defaults and splits the URL into the manager base URL and
// the engine.io path.
func (o Options) normalize() (Options, string, string, error) {
	if o.URL == "" {
		return o, "", "", errors.New("publish URL is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil {
		return o, "", "", fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return o, "", "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return o, "", "", fmt.Errorf("URL %q has no host", o.URL)
	}
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.Event == "" {
		o.Event = DefaultEvent
	}
	if o.AckEvent == "" {
		o.AckEvent = DefaultAckEvent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, fmt.Sprintf("%s://%s", u.Scheme, u.Host), u.Path, nil
}

// Publish connects to the endpoint, emits sketch once connected and returns
// when the acknowledgement event arrives, the connection fails, or the
// timeout expires.
func Publish(ctx context.Context, opts Options, sketch Sketch) (*Receipt, error) {
	opts, base, path, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("component", "publish", "url", opts.URL, "event", opts.Event)
	logger.Debug("Publishing sketch.", "bytes", len(sketch.Source))

	var connected atomic.Bool
	done := make(chan outcome, 1)
	finish := func(o outcome) {
		select {
		case done <- o:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	sopts := socket.DefaultOptions()
	if path != "" {
		sopts.SetPath(path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(base, sopts)
	io := manager.Socket(opts.Namespace, sopts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Info("Connected, emitting sketch.", "namespace", opts.Namespace, "sid", io.Id())
		io.Emit(opts.Event, map[string]any{"board": sketch.Board, "source": sketch.Source})
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		finish(outcome{err: connectError(errs)})
	})

	io.On(types.EventName(opts.AckEvent), func(data ...any) {
		var response any
		if len(data) > 0 {
			response = data[0]
		}
		finish(outcome{receipt: &Receipt{Response: response}})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return nil, fmt.Errorf("%w after connecting while waiting for %q", ErrTimeout, opts.AckEvent)
		}
		return nil, fmt.Errorf("%w while waiting for the connection", ErrTimeout)
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		logger.Info("Sketch acknowledged.")
		return res.receipt, nil
	}
}

func connectError(errs []any) error {
	if len(errs) > 0 {
		if err, ok := errs[0].(error); ok {
			return fmt.Errorf("connection failed: %w", err)
		}
		return fmt.Errorf("connection failed: %v", errs[0])
	}
	return errors.New("connection failed")
}
