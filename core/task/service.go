package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/junaidjmomin/classroom/core"
)

// store keys
const (
	importedTasksKey  = "imported_tasks"
	manualTasksKey    = "manual_tasks"
	deletedTaskIDsKey = "deleted_task_ids"
)

const (
	digestTemplate = "task_digest"
	digestSubject  = "Your task digest"
)

var (
	// errors
	ErrNotFound     = errors.New("task not found")
	errNoRecipients = errors.New("at least one recipient is required")
)

type ServiceInterface interface {
	Import(ctx context.Context, lists []CourseWorkList) ([]Task, error)
	Create(ctx context.Context, nt NewTask) (Task, error)
	ComputePriority(nt NewTask) (Task, error)
	Parse(ctx context.Context, text string) ([]Task, error)
	Query(ctx context.Context, filter QueryFilter, orderings []core.Ordering) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Complete(ctx context.Context, id string) (Task, error)
	Delete(ctx context.Context, ids ...string) error
	Recommendations(ctx context.Context) ([]string, error)
	SendDigest(ctx context.Context, recipients ...mail.Address) error
}

var _ ServiceInterface = (*Service)(nil)

// Service manages the dashboard's task collection: classroom imports, manual and parsed tasks.
// Calls are serialised; the scoring core it relies on is pure.
type Service struct {
	store      core.Store
	mailSvc    core.EmailService
	validate   *validator.Validate
	logger     core.Logger
	calc       Calculator
	parser     *Parser
	digestSize int

	mu sync.Mutex
}

func NewService(
	store core.Store,
	mailSvc core.EmailService,
	validate *validator.Validate,
	logger core.Logger,
	conf *core.Config,
) *Service {
	calc := Calculator{}
	return &Service{
		store:      store,
		mailSvc:    mailSvc,
		validate:   validate,
		logger:     logger,
		calc:       calc,
		parser:     NewParser(calc, logger),
		digestSize: conf.DigestSize,
	}
}

// Calculator returns the calculator the service scores tasks with.
func (svc *Service) Calculator() Calculator { return svc.calc }

// Import replaces the imported classroom tasks with the ones mapped from lists.
// Deleted tasks stay hidden and completed ones stay completed.
func (svc *Service) Import(ctx context.Context, lists []CourseWorkList) ([]Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	deleted, err := svc.loadIDs(ctx, deletedTaskIDsKey)
	if err != nil {
		return nil, err
	}
	previous, err := svc.loadTasks(ctx, importedTasksKey)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(previous))
	for _, t := range previous {
		if t.IsCompleted() {
			completed[t.ID] = true
		}
	}

	imported := make([]Task, 0)
	for _, t := range FromCourseWorkLists(lists, svc.calc) {
		if deleted[t.ID] {
			continue
		}
		if completed[t.ID] {
			t.Complete(svc.calc)
		}
		imported = append(imported, t)
	}
	if err = svc.saveTasks(ctx, importedTasksKey, imported); err != nil {
		return nil, err
	}
	return imported, nil
}

// Create validates nt and adds it to the manual tasks.
func (svc *Service) Create(ctx context.Context, nt NewTask) (Task, error) {
	t, err := svc.build(nt)
	if err != nil {
		return Task{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	manual, err := svc.loadTasks(ctx, manualTasksKey)
	if err != nil {
		return Task{}, err
	}
	if err = svc.saveTasks(ctx, manualTasksKey, append(manual, t)); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ComputePriority scores nt without storing it.
func (svc *Service) ComputePriority(nt NewTask) (Task, error) {
	return svc.build(nt)
}

func (svc *Service) build(nt NewTask) (Task, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Task{}, err
	}
	t, err := nt.Task(svc.calc.now().Location())
	if err != nil {
		return Task{}, err
	}
	t.Refresh(svc.calc)
	return t, nil
}

// Parse extracts tasks from text and adds them to the manual tasks.
func (svc *Service) Parse(ctx context.Context, text string) ([]Task, error) {
	parsed := svc.parser.Parse(text)
	if len(parsed) == 0 {
		return parsed, nil
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	manual, err := svc.loadTasks(ctx, manualTasksKey)
	if err != nil {
		return nil, err
	}
	if err = svc.saveTasks(ctx, manualTasksKey, append(manual, parsed...)); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Query returns the refreshed tasks matching filter, sorted by orderings (DefaultOrdering when empty).
func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings []core.Ordering) ([]Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.all(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(all))
	for _, t := range all {
		if filter.matches(t) {
			tasks = append(tasks, t)
		}
	}
	Sort(tasks, orderings)
	return tasks, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.all(ctx)
	if err != nil {
		return Task{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

// Complete marks the task `id` as completed.
func (svc *Service) Complete(ctx context.Context, id string) (Task, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	deleted, err := svc.loadIDs(ctx, deletedTaskIDsKey)
	if err != nil {
		return Task{}, err
	}
	if deleted[id] {
		return Task{}, ErrNotFound
	}

	for _, key := range []string{importedTasksKey, manualTasksKey} {
		tasks, err := svc.loadTasks(ctx, key)
		if err != nil {
			return Task{}, err
		}
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			tasks[i].Complete(svc.calc)
			if err = svc.saveTasks(ctx, key, tasks); err != nil {
				return Task{}, err
			}
			return tasks[i], nil
		}
	}
	return Task{}, ErrNotFound
}

// Delete hides the tasks `ids` for good: their ids are remembered so re-imports skip them.
func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	deleted, err := svc.loadIDs(ctx, deletedTaskIDsKey)
	if err != nil {
		return err
	}
	for _, id := range ids {
		deleted[id] = true
	}

	manual, err := svc.loadTasks(ctx, manualTasksKey)
	if err != nil {
		return err
	}
	kept := manual[:0]
	for _, t := range manual {
		if !deleted[t.ID] {
			kept = append(kept, t)
		}
	}

	if err = svc.saveTasks(ctx, manualTasksKey, kept); err != nil {
		return err
	}
	return svc.saveIDs(ctx, deletedTaskIDsKey, deleted)
}

// Recommendations returns guidance for the current tasks. Generation failures yield no recommendations.
func (svc *Service) Recommendations(ctx context.Context) ([]string, error) {
	tasks, err := svc.Query(ctx, QueryFilter{}, nil)
	if err != nil {
		return nil, err
	}
	return svc.recommend(tasks), nil
}

func (svc *Service) recommend(tasks []Task) (recs []string) {
	defer func() {
		if r := recover(); r != nil {
			svc.logger.Warn(fmt.Sprintf("generating recommendations: %v", r))
			recs = []string{}
		}
	}()
	return Recommendations(tasks, svc.calc)
}

type (
	digestTask struct {
		Title    string
		Course   string
		Link     string
		DueLabel string
		Score    float64
	}

	digestData struct {
		Recommendations []string
		Tasks           []digestTask
	}
)

// SendDigest e-mails the recommendations and the top pending tasks to recipients.
func (svc *Service) SendDigest(ctx context.Context, recipients ...mail.Address) error {
	if len(recipients) == 0 {
		return core.NewValidationError(errNoRecipients, core.FieldError{Field: "to", Error: errNoRecipients.Error()})
	}

	tasks, err := svc.Query(ctx, QueryFilter{Statuses: []string{string(StatusUrgent), string(StatusPending)}}, nil)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	data := digestData{Recommendations: svc.recommend(tasks)}

	now := svc.calc.now()
	for i, t := range tasks {
		if i == svc.digestSize {
			break
		}
		data.Tasks = append(data.Tasks, digestTask{
			Title:    t.Title,
			Course:   t.Course,
			Link:     t.Link,
			DueLabel: t.DueLabel(now),
			Score:    t.Score(),
		})
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           recipients,
		Subject:      digestSubject,
		TemplateName: digestTemplate,
		TemplateData: data,
	})
	return nil
}

// all returns imported and manual tasks not deleted, refreshed at now. Callers hold svc.mu.
func (svc *Service) all(ctx context.Context) ([]Task, error) {
	deleted, err := svc.loadIDs(ctx, deletedTaskIDsKey)
	if err != nil {
		return nil, err
	}
	imported, err := svc.loadTasks(ctx, importedTasksKey)
	if err != nil {
		return nil, err
	}
	manual, err := svc.loadTasks(ctx, manualTasksKey)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(imported)+len(manual))
	for _, t := range append(imported, manual...) {
		if deleted[t.ID] {
			continue
		}
		t.Refresh(svc.calc)
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (svc *Service) loadTasks(ctx context.Context, key string) ([]Task, error) {
	data, err := svc.store.Load(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", key)
	}
	tasks := make([]Task, 0)
	if len(data) == 0 {
		return tasks, nil
	}
	if err = json.Unmarshal(data, &tasks); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", key)
	}
	return tasks, nil
}

func (svc *Service) saveTasks(ctx context.Context, key string, tasks []Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(svc.store.Save(ctx, key, data), "saving %s", key)
}

func (svc *Service) loadIDs(ctx context.Context, key string) (map[string]bool, error) {
	data, err := svc.store.Load(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", key)
	}
	var ids []string
	if len(data) > 0 {
		if err = json.Unmarshal(data, &ids); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", key)
		}
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (svc *Service) saveIDs(ctx context.Context, key string, set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return errors.Wrapf(svc.store.Save(ctx, key, data), "saving %s", key)
}
