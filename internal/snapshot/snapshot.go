// Package snapshot exports the chore logs and family members as an encrypted
// JSON document to S3-compatible storage and restores them from it.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/chorelog/internal/metrics"
	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/store"
)

const formatVersion = 1

var (
	ErrDisabled = errors.New("snapshots not configured: s3 bucket missing")
	ErrNotFound = errors.New("snapshot not found")
	ErrBusy     = errors.New("a snapshot is already running")
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

type Config struct {
	S3         S3Config
	Passphrase string
	Prefix     string
	// Keep is how many completed snapshots Prune retains. Zero keeps all.
	Keep int
	// Interval between scheduled snapshots. Zero disables the schedule.
	Interval time.Duration
}

// Document is the plaintext stored inside an encrypted snapshot.
type Document struct {
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	Logs      []model.ChoreLog     `json:"logs"`
	Members   []model.FamilyMember `json:"members"`
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

type Status struct {
	State   State      `json:"state"`
	LastRun *time.Time `json:"last_run,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Manager creates, lists and restores snapshots.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	client s3Client
	status Status

	logs      *store.LogStore
	members   *store.MemberStore
	snapshots *store.SnapshotStore
	logger    *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}

	now func() time.Time
}

func NewManager(cfg Config, logs *store.LogStore, members *store.MemberStore, snapshots *store.SnapshotStore, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:       cfg,
		logs:      logs,
		members:   members,
		snapshots: snapshots,
		logger:    logger.With("component", "snapshot"),
		status:    Status{State: StateDisabled},
		now:       time.Now,
	}
	if cfg.S3.Bucket != "" {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: true,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Start takes a snapshot and prunes old ones every Interval until ctx is
// done or Stop is called. It does nothing when snapshots are disabled.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.client == nil || m.cfg.Interval <= 0 || m.done != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	m.logger.Info("snapshot schedule started", "interval", m.cfg.Interval)
	go func() {
		defer close(done)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.scheduled(ctx)
			}
		}
	}()
}

// Stop ends the schedule and waits for a running snapshot to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// scheduled runs to completion once started so Stop never leaves an
// uploaded object without its record.
func (m *Manager) scheduled(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if _, err := m.Create(ctx); err != nil {
		if errors.Is(err, ErrBusy) {
			m.logger.Info("scheduled snapshot skipped", "reason", err)
		}
		return
	}
	if _, err := m.Prune(ctx); err != nil {
		m.logger.Error("prune snapshots", "error", err)
	}
}

// begin moves the manager to running, refusing overlapping runs. It returns
// the status it replaced.
func (m *Manager) begin() (s3Client, Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil, Status{}, ErrDisabled
	}
	if m.status.State == StateRunning {
		return nil, Status{}, ErrBusy
	}
	prev := m.status
	m.status.State = StateRunning
	return m.client, prev, nil
}

func (m *Manager) release(prev Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = prev
}

func (m *Manager) finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	m.status = Status{State: StateIdle, LastRun: &now}
	if err != nil {
		m.status.State = StateError
		m.status.Error = err.Error()
	}
}

// Create reads every log and member, encrypts them and uploads the result.
// The run is recorded in the snapshots table whether it succeeds or not.
func (m *Manager) Create(ctx context.Context) (*model.Snapshot, error) {
	client, _, err := m.begin()
	if err != nil {
		return nil, err
	}

	sn, err := m.create(ctx, client)
	m.finish(err)
	if err != nil {
		metrics.Snapshots.WithLabelValues("failed").Inc()
		m.logger.Error("snapshot failed", "error", err)
		return nil, err
	}
	metrics.Snapshots.WithLabelValues("completed").Inc()
	m.logger.Info("snapshot completed", "id", sn.ID, "key", sn.ObjectKey, "logs", sn.LogCount, "bytes", sn.SizeBytes)
	return sn, nil
}

func (m *Manager) create(ctx context.Context, client s3Client) (*model.Snapshot, error) {
	now := m.now().UTC()
	key := fmt.Sprintf("%ssnapshot-%s.json.enc", m.cfg.Prefix, now.Format("2006-01-02T150405.000Z"))

	record, err := m.snapshots.Create(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("create snapshot record: %w", err)
	}

	fail := func(err error) (*model.Snapshot, error) {
		if markErr := m.snapshots.MarkFailed(context.WithoutCancel(ctx), record.ID, err.Error()); markErr != nil {
			m.logger.Error("mark snapshot failed", "id", record.ID, "error", markErr)
		}
		return nil, err
	}

	logs, err := m.logs.List(ctx)
	if err != nil {
		return fail(err)
	}
	members, err := m.members.List(ctx)
	if err != nil {
		return fail(err)
	}

	plaintext, err := json.Marshal(Document{
		Version:   formatVersion,
		CreatedAt: now,
		Logs:      logs,
		Members:   members,
	})
	if err != nil {
		return fail(fmt.Errorf("marshal snapshot: %w", err))
	}

	payload, err := Encrypt(plaintext, m.cfg.Passphrase)
	if err != nil {
		return fail(fmt.Errorf("encrypt: %w", err))
	}

	if _, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	}); err != nil {
		return fail(fmt.Errorf("upload to s3: %w", err))
	}

	size := int64(len(payload))
	if err := m.snapshots.MarkCompleted(ctx, record.ID, size, len(logs)); err != nil {
		return nil, err
	}
	finished := m.now().UTC()
	record.Status = model.SnapshotStatusCompleted
	record.SizeBytes = size
	record.LogCount = len(logs)
	record.FinishedAt = &finished
	return record, nil
}

func (m *Manager) List(ctx context.Context, limit int) ([]model.Snapshot, error) {
	return m.snapshots.List(ctx, limit)
}

// Latest returns the newest completed snapshot record.
func (m *Manager) Latest(ctx context.Context) (*model.Snapshot, error) {
	sn, err := m.snapshots.LatestCompleted(ctx)
	if err != nil {
		return nil, err
	}
	if sn == nil {
		return nil, ErrNotFound
	}
	return sn, nil
}

// fetch downloads and decrypts a completed snapshot.
func (m *Manager) fetch(ctx context.Context, client s3Client, id int64) (*Document, error) {
	record, err := m.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Status != model.SnapshotStatusCompleted {
		return nil, ErrNotFound
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(record.ObjectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	payload, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	plaintext, err := Decrypt(payload, m.cfg.Passphrase)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}
	return &doc, nil
}

// Restore replaces the members and logs with the contents of snapshot id in
// a single transaction. It refuses to run while a snapshot is being taken.
func (m *Manager) Restore(ctx context.Context, id int64) (*Document, error) {
	client, prev, err := m.begin()
	if err != nil {
		return nil, err
	}
	defer m.release(prev)

	doc, err := m.fetch(ctx, client, id)
	if err != nil {
		return nil, err
	}
	if err := m.snapshots.RestoreAll(ctx, doc.Members, doc.Logs); err != nil {
		return nil, err
	}
	m.logger.Info("snapshot restored", "id", id, "logs", len(doc.Logs), "members", len(doc.Members))
	return doc, nil
}

// Prune deletes completed snapshots beyond the configured Keep count,
// removing both the records and their objects.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	m.mu.Lock()
	client := m.client
	m.mu.Unlock()
	if client == nil || m.cfg.Keep <= 0 {
		return 0, nil
	}

	keys, err := m.snapshots.DeleteAllButLatest(ctx, m.cfg.Keep)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("delete snapshot object", "key", key, "error", err)
		}
	}
	return len(keys), nil
}
