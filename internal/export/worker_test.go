package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// fakeTaskRepo mirrors the conditional transition semantics of the real
// gorm-backed repository.
type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[int64]*domain.ExportTask
	seq   int64

	markProcessingCalls int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[int64]*domain.ExportTask)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.ExportTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	task.ID = r.seq
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*domain.ExportTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) MarkProcessing(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markProcessingCalls++
	task, ok := r.tasks[id]
	if !ok || task.Status != domain.TaskStatusPending {
		return false, nil
	}
	task.Status = domain.TaskStatusProcessing
	task.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeTaskRepo) MarkSuccess(ctx context.Context, id int64, filePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.Status != domain.TaskStatusProcessing {
		return gorm.ErrRecordNotFound
	}
	task.Status = domain.TaskStatusSuccess
	task.FilePath = filePath
	task.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTaskRepo) RevertToPending(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.Status != domain.TaskStatusProcessing {
		return false, nil
	}
	task.Status = domain.TaskStatusPending
	task.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeTaskRepo) MarkFailed(ctx context.Context, id int64, errorMsg string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.Status.Terminal() {
		return false, nil
	}
	task.Status = domain.TaskStatusFailed
	task.ErrorMsg = errorMsg
	task.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeTaskRepo) processingCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.markProcessingCalls
}

func (r *fakeTaskRepo) status(id int64) domain.TaskStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[id].Status
}

// fakeLocker is an in-memory lease with the same acquire/extend/release
// contract as the Redis locker. TTLs are recorded, not enforced.
type fakeLocker struct {
	mu   sync.Mutex
	held map[int64]time.Duration
	ttl  time.Duration
	fail bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[int64]time.Duration), ttl: 30 * time.Minute}
}

func (l *fakeLocker) Acquire(ctx context.Context, taskID int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return false, errors.New("redis unavailable")
	}
	if _, ok := l.held[taskID]; ok {
		return false, nil
	}
	l.held[taskID] = l.ttl
	return true, nil
}

func (l *fakeLocker) Extend(ctx context.Context, taskID int64, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[taskID]; ok {
		l.held[taskID] = ttl
	}
	return nil
}

func (l *fakeLocker) Release(ctx context.Context, taskID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, taskID)
	return nil
}

func (l *fakeLocker) heldTTL(taskID int64) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ttl, ok := l.held[taskID]
	return ttl, ok
}

type fakeExporter struct {
	mu    sync.Mutex
	calls int
	path  string
	err   error
}

func (e *fakeExporter) Export(ctx context.Context, paramsJSON string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return e.path, nil
}

func (e *fakeExporter) exportCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

const testSuccessTTL = 24 * time.Hour

func newTestWorker(repo *fakeTaskRepo, locker *fakeLocker, exporters Exporters) *Worker {
	return NewWorker(repo, locker, exporters, testSuccessTTL, logger.Nop())
}

func submitTask(t *testing.T, repo *fakeTaskRepo, taskType domain.TaskType, params string) *asynq.Task {
	t.Helper()
	task := &domain.ExportTask{TaskType: taskType, Params: params, Status: domain.TaskStatusPending}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	payload := fmt.Sprintf(`{"taskId":%d,"taskType":%q,"paramsJson":%q}`, task.ID, taskType, params)
	return asynq.NewTask(TypeExportTask, []byte(payload))
}

func TestWorker_Success(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	exporter := &fakeExporter{path: "/tmp/exports/employees_test.xlsx"}
	worker := newTestWorker(repo, locker, Exporters{domain.TaskTypeEmployeeExport: exporter})

	msg := submitTask(t, repo, domain.TaskTypeEmployeeExport, `{"department":"Sales"}`)
	if err := worker.ProcessTask(context.Background(), msg); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	if got := repo.status(1); got != domain.TaskStatusSuccess {
		t.Fatalf("want status=%s got=%s", domain.TaskStatusSuccess, got)
	}
	task, _ := repo.GetByID(context.Background(), 1)
	if task.FilePath != exporter.path {
		t.Fatalf("want file_path=%s got=%s", exporter.path, task.FilePath)
	}

	// The lease is kept and stretched to the success horizon, not released.
	ttl, held := locker.heldTTL(1)
	if !held {
		t.Fatal("lease should still be held after success")
	}
	if ttl != testSuccessTTL {
		t.Fatalf("want lease ttl=%s got=%s", testSuccessTTL, ttl)
	}
}

func TestWorker_DuplicateDeliveries(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	exporter := &fakeExporter{path: "/tmp/exports/employees_test.xlsx"}
	worker := newTestWorker(repo, locker, Exporters{domain.TaskTypeEmployeeExport: exporter})

	msg := submitTask(t, repo, domain.TaskTypeEmployeeExport, `{}`)

	// Five deliveries of the same message: one passes the lease, four drop.
	for i := 0; i < 5; i++ {
		if err := worker.ProcessTask(context.Background(), msg); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	if calls := repo.processingCalls(); calls != 1 {
		t.Fatalf("want exactly 1 MarkProcessing call, got %d", calls)
	}
	if calls := exporter.exportCalls(); calls != 1 {
		t.Fatalf("want exactly 1 export run, got %d", calls)
	}
	if got := repo.status(1); got != domain.TaskStatusSuccess {
		t.Fatalf("want status=%s got=%s", domain.TaskStatusSuccess, got)
	}
}

func TestWorker_ConcurrentDeliveries(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	exporter := &fakeExporter{path: "/tmp/exports/employees_test.xlsx"}
	worker := newTestWorker(repo, locker, Exporters{domain.TaskTypeEmployeeExport: exporter})

	msg := submitTask(t, repo, domain.TaskTypeEmployeeExport, `{}`)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = worker.ProcessTask(context.Background(), msg)
		}()
	}
	wg.Wait()

	if calls := repo.processingCalls(); calls != 1 {
		t.Fatalf("want exactly 1 MarkProcessing call, got %d", calls)
	}
	if calls := exporter.exportCalls(); calls != 1 {
		t.Fatalf("want exactly 1 export run, got %d", calls)
	}
}

func TestWorker_StaleStatusAbsorbed(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	exporter := &fakeExporter{path: "/tmp/x.xlsx"}
	worker := newTestWorker(repo, locker, Exporters{domain.TaskTypeEmployeeExport: exporter})

	msg := submitTask(t, repo, domain.TaskTypeEmployeeExport, `{}`)
	if err := worker.ProcessTask(context.Background(), msg); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	// Simulate a redelivery after the lease expired: the status re-check
	// must absorb it without another export run.
	if err := locker.Release(context.Background(), 1); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := worker.ProcessTask(context.Background(), msg); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if calls := exporter.exportCalls(); calls != 1 {
		t.Fatalf("want exactly 1 export run, got %d", calls)
	}
	if got := repo.status(1); got != domain.TaskStatusSuccess {
		t.Fatalf("status must stay %s, got %s", domain.TaskStatusSuccess, got)
	}
}

func TestWorker_UnsupportedTypeShortCircuits(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	worker := newTestWorker(repo, locker, Exporters{})

	msg := submitTask(t, repo, domain.TaskType("PAYROLL_EXPORT"), `{}`)
	if err := worker.ProcessTask(context.Background(), msg); err != nil {
		t.Fatalf("unsupported type must not propagate an error, got %v", err)
	}

	if got := repo.status(1); got != domain.TaskStatusFailed {
		t.Fatalf("want status=%s got=%s", domain.TaskStatusFailed, got)
	}
	if calls := repo.processingCalls(); calls != 0 {
		t.Fatalf("task must never reach PROCESSING, got %d MarkProcessing calls", calls)
	}
	task, _ := repo.GetByID(context.Background(), 1)
	if !strings.Contains(task.ErrorMsg, "unsupported task type") {
		t.Fatalf("unexpected error message: %q", task.ErrorMsg)
	}
}

func TestWorker_TransientFailureIsRetryable(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	exporter := &fakeExporter{err: errors.New("query timeout")}
	worker := newTestWorker(repo, locker, Exporters{domain.TaskTypeEmployeeExport: exporter})

	msg := submitTask(t, repo, domain.TaskTypeEmployeeExport, `{}`)
	err := worker.ProcessTask(context.Background(), msg)
	if err == nil {
		t.Fatal("transient failure must propagate to trigger redelivery")
	}

	// Lease released and row back to PENDING: a redelivery can run the job.
	if _, held := locker.heldTTL(1); held {
		t.Fatal("lease must be released after a transient failure")
	}
	if got := repo.status(1); got != domain.TaskStatusPending {
		t.Fatalf("want status=%s got=%s", domain.TaskStatusPending, got)
	}

	// And the retry succeeds end to end.
	exporter.mu.Lock()
	exporter.err = nil
	exporter.path = "/tmp/x.xlsx"
	exporter.mu.Unlock()
	if err := worker.ProcessTask(context.Background(), msg); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := repo.status(1); got != domain.TaskStatusSuccess {
		t.Fatalf("want status=%s got=%s", domain.TaskStatusSuccess, got)
	}
}

func TestWorker_LockBackendErrorPropagates(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	locker.fail = true
	worker := newTestWorker(repo, locker, Exporters{})

	msg := submitTask(t, repo, domain.TaskTypeEmployeeExport, `{}`)
	if err := worker.ProcessTask(context.Background(), msg); err == nil {
		t.Fatal("lease backend failure must propagate to trigger redelivery")
	}
	if got := repo.status(1); got != domain.TaskStatusPending {
		t.Fatalf("row must be untouched, got status=%s", got)
	}
}

func TestWorker_TaskNotFoundPropagates(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := newFakeLocker()
	worker := newTestWorker(repo, locker, Exporters{})

	payload := []byte(`{"taskId":999,"taskType":"EMPLOYEE_EXPORT","paramsJson":"{}"}`)
	err := worker.ProcessTask(context.Background(), asynq.NewTask(TypeExportTask, payload))
	if err == nil {
		t.Fatal("missing task row must propagate toward the dead-letter path")
	}
	if _, held := locker.heldTTL(999); held {
		t.Fatal("lease must be released when the task row is missing")
	}
}

func TestWorker_MalformedPayloadDropped(t *testing.T) {
	repo := newFakeTaskRepo()
	worker := newTestWorker(repo, newFakeLocker(), Exporters{})

	err := worker.ProcessTask(context.Background(), asynq.NewTask(TypeExportTask, []byte("not json")))
	if err != nil {
		t.Fatalf("malformed payload must be dropped, got %v", err)
	}
}

func TestDeadLetterHandler_MarksFailed(t *testing.T) {
	repo := newFakeTaskRepo()
	handler := NewDeadLetterHandler(repo, logger.Nop())

	task := &domain.ExportTask{TaskType: domain.TaskTypeEmployeeExport, Params: `{}`, Status: domain.TaskStatusPending}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}

	payload := fmt.Sprintf(`{"taskId":%d,"taskType":"EMPLOYEE_EXPORT","paramsJson":"{}"}`, task.ID)
	if err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeExportDead, []byte(payload))); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), task.ID)
	if got.Status != domain.TaskStatusFailed {
		t.Fatalf("want status=%s got=%s", domain.TaskStatusFailed, got.Status)
	}
	if got.ErrorMsg != DeadLetterMessage {
		t.Fatalf("want the fixed operator message, got %q", got.ErrorMsg)
	}
}

func TestDeadLetterHandler_TerminalIsNoop(t *testing.T) {
	repo := newFakeTaskRepo()
	handler := NewDeadLetterHandler(repo, logger.Nop())

	task := &domain.ExportTask{TaskType: domain.TaskTypeEmployeeExport, Params: `{}`, Status: domain.TaskStatusPending}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.mu.Lock()
	repo.tasks[task.ID].Status = domain.TaskStatusSuccess
	repo.tasks[task.ID].FilePath = "/tmp/done.xlsx"
	repo.mu.Unlock()

	payload := fmt.Sprintf(`{"taskId":%d,"taskType":"EMPLOYEE_EXPORT","paramsJson":"{}"}`, task.ID)
	if err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeExportDead, []byte(payload))); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), task.ID)
	if got.Status != domain.TaskStatusSuccess {
		t.Fatalf("terminal status must never change, got %s", got.Status)
	}
	if got.FilePath != "/tmp/done.xlsx" {
		t.Fatalf("artifact path must be untouched, got %q", got.FilePath)
	}

	// Missing rows are absorbed the same way.
	if err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeExportDead, []byte(`{"taskId":999}`))); err != nil {
		t.Fatalf("missing task must be a no-op, got %v", err)
	}
}
