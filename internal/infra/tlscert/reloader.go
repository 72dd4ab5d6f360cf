package tlscert

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single certificate
// rotation produces.
const DefaultDebounce = 250 * time.Millisecond

// Reloader holds the current key pair.
type Reloader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	debounce time.Duration

	cert    atomic.Pointer[tls.Certificate]
	reloads atomic.Int64

	watcher  *fsnotify.Watcher
	timerMu  sync.Mutex
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reloader) { r.logger = l }
}

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(r *Reloader) { r.debounce = d }
}

// NewReloader loads the key pair. Call Watch to follow changes.
func NewReloader(certFile, keyFile string, opts ...Option) (*Reloader, error) {
	r := &Reloader{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Watch starts following the files in the background.
func (r *Reloader) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlscert: create watcher: %w", err)
	}

	// Directories survive editors and tools that replace files by rename.
	files := make(map[string]bool, 2)
	for _, f := range []string{r.certFile, r.keyFile} {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return fmt.Errorf("tlscert: %w", err)
		}
		files[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			w.Close()
			return fmt.Errorf("tlscert: watch %s: %w", filepath.Dir(abs), err)
		}
	}
	r.watcher = w

	go r.loop(files)
	return nil
}

func (r *Reloader) loop(files map[string]bool) {
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); err != nil || !files[abs] {
				continue
			}
			r.schedule()

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("certificate watcher error", "error", err)

		case <-r.done:
			return
		}
	}
}

// schedule reloads once the files have been quiet for the debounce period.
func (r *Reloader) schedule() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		select {
		case <-r.done:
			return
		default:
		}
		if err := r.load(); err != nil {
			r.logger.Error("certificate reload failed, keeping the previous one",
				"error", err, "cert_file", r.certFile)
		}
	})
}

func (r *Reloader) load() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("tlscert: load key pair: %w", err)
	}
	r.cert.Store(&cert)
	r.reloads.Add(1)
	r.logger.Info("certificate loaded", "cert_file", r.certFile)
	return nil
}

// Loads reports how many times the pair has been loaded successfully.
func (r *Reloader) Loads() int64 {
	return r.reloads.Load()
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return r.cert.Load(), nil
}

// TLSConfig returns a server configuration backed by the reloader.
func (r *Reloader) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: r.GetCertificate,
	}
}

// Close stops watching. It is safe to call more than once.
func (r *Reloader) Close() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.done)

		r.timerMu.Lock()
		if r.timer != nil {
			r.timer.Stop()
		}
		r.timerMu.Unlock()

		if r.watcher != nil {
			err = r.watcher.Close()
		}
	})
	return err
}
