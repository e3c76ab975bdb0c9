package service

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Service is the audit log writer: a single in-process queue drained by one
// long-lived goroutine that owns the append-only log file handle, so
// concurrent callers never race on the file descriptor and writes are
// serialized without a mutex.
type Service struct {
	path       string
	file       *os.File
	signer     *Signer
	signingKey []byte
	logger     *slog.Logger

	events chan *auditDomain.Event
	done   chan struct{}
	wg     sync.WaitGroup
}

// New opens (creating if necessary) the audit log at path and starts its
// consumer goroutine. signingKey is the system's encryption key material
// used to derive the HMAC signing key; a nil signingKey disables signing
// (events are written without an hmac field).
func New(path string, signingKey []byte, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating audit directory: %v", apperrors.ErrStorage, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: opening audit log: %v", apperrors.ErrStorage, err)
	}

	s := &Service{
		path:       path,
		file:       file,
		signer:     NewSigner(),
		signingKey: signingKey,
		logger:     logger,
		events:     make(chan *auditDomain.Event),
		done:       make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()
	return s, nil
}

func (s *Service) run() {
	defer s.wg.Done()
	for {
		select {
		case event := <-s.events:
			if err := s.write(event); err != nil {
				s.logger.Error("audit: failed to write event", slog.String("type", string(event.Type)), slog.Any("error", err))
			}
		case <-s.done:
			return
		}
	}
}

func (s *Service) write(event *auditDomain.Event) error {
	if s.signingKey != nil {
		sig, err := s.signer.Sign(s.signingKey, event)
		if err != nil {
			return fmt.Errorf("signing event: %w", err)
		}
		event.HMAC = hex.EncodeToString(sig)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	data = append(data, '\n')

	if _, err := s.file.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return s.file.Sync()
}

// Log hands event to the consumer goroutine for durable append to the log.
// The hand-off is an unbuffered channel send, so Log blocks until the
// consumer is free, which includes waiting out the write and fsync of the
// previous event; there is no backlog queue. Events from a single calling
// goroutine are written in the order Log was called (FIFO per producer).
// After Close, Log returns without writing the event.
func (s *Service) Log(event *auditDomain.Event) {
	select {
	case s.events <- event:
	case <-s.done:
	}
}

// Close stops the consumer goroutine, waits for any write in progress to
// finish, and closes the underlying file handle. A Log call still waiting
// for the consumer returns without writing its event.
func (s *Service) Close() error {
	close(s.done)
	s.wg.Wait()
	return s.file.Close()
}

// Query performs a linear scan of the audit log for events with a timestamp
// in [start, end], returning at most limit results, oldest first. limit <= 0
// means unlimited.
func (s *Service) Query(start, end time.Time, limit int) ([]*auditDomain.Event, error) {
	return s.scan(limit, func(e *auditDomain.Event) bool {
		return !e.Timestamp.Before(start) && !e.Timestamp.After(end)
	})
}

// QueryByUser performs a linear scan of the audit log for events raised by
// user, returning at most limit results, oldest first. limit <= 0 means
// unlimited.
func (s *Service) QueryByUser(user string, limit int) ([]*auditDomain.Event, error) {
	return s.scan(limit, func(e *auditDomain.Event) bool {
		return e.User == user
	})
}

// Count returns the total number of events in the audit log.
func (s *Service) Count() (int64, error) {
	events, err := s.scan(0, func(*auditDomain.Event) bool { return true })
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

func (s *Service) scan(limit int, match func(*auditDomain.Event) bool) ([]*auditDomain.Event, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: opening audit log for query: %v", apperrors.ErrStorage, err)
	}
	defer file.Close()

	var out []*auditDomain.Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event auditDomain.Event
		if err := json.Unmarshal(line, &event); err != nil {
			s.logger.Warn("audit: skipping unparseable log line", slog.Any("error", err))
			continue
		}
		if match(&event) {
			out = append(out, &event)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning audit log: %v", apperrors.ErrStorage, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// VerifyAll re-signs every event in the log under signingKey and reports any
// whose stored hmac does not match, for offline tamper detection.
func (s *Service) VerifyAll(signingKey []byte) (checked, invalid int, invalidIDs []string, err error) {
	file, openErr := os.Open(s.path)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return 0, 0, nil, nil
		}
		return 0, 0, nil, fmt.Errorf("%w: opening audit log for verification: %v", apperrors.ErrStorage, openErr)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event auditDomain.Event
		if unmarshalErr := json.Unmarshal(line, &event); unmarshalErr != nil {
			continue
		}
		checked++
		sig := event.HMAC
		event.HMAC = ""
		if verifyErr := s.signer.Verify(signingKey, &event, sig); verifyErr != nil {
			invalid++
			invalidIDs = append(invalidIDs, event.ID.String())
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return checked, invalid, invalidIDs, fmt.Errorf("%w: scanning audit log: %v", apperrors.ErrStorage, scanErr)
	}
	return checked, invalid, invalidIDs, nil
}
