package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/pkg/errors"
)

// BlobBackend implements Backend on top of any BlobStore, keeping one JSON
// document per collection key. Every operation loads the whole collection,
// modifies it and writes it back while holding mu, so no caller of the same
// BlobBackend ever observes a half-applied write. Writers in other processes
// are not coordinated; the last write wins.
type BlobBackend struct {
	mu    sync.Mutex
	store BlobStore
	now   func() time.Time
	newID func() string
}

var _ Backend = (*BlobBackend)(nil)

type Option func(*BlobBackend)

func WithClock(now func() time.Time) Option {
	return func(b *BlobBackend) { b.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(b *BlobBackend) { b.newID = newID }
}

func NewBlobBackend(store BlobStore, opts ...Option) *BlobBackend {
	b := &BlobBackend{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// keyed is satisfied by every list record; Key is its id or natural key.
type keyed interface {
	Key() string
}

func readBlob[T any](ctx context.Context, store BlobStore, key string) (T, bool, error) {
	var v T
	data, err := store.Load(ctx, key)
	if err != nil {
		return v, false, classify("load", key, err)
	}
	if len(data) == 0 {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, Persistence("decode", key, errors.Wrap(err, "corrupt collection"))
	}
	return v, true, nil
}

func writeBlob[T any](ctx context.Context, store BlobStore, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return Persistence("encode", key, err)
	}
	return classify("save", key, store.Save(ctx, key, data))
}

func readList[T any](ctx context.Context, store BlobStore, key string) ([]T, error) {
	list, _, err := readBlob[[]T](ctx, store, key)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// upsert replaces the entry with the same key in place or appends item.
func upsert[T keyed](list []T, item T) []T {
	for i := range list {
		if list[i].Key() == item.Key() {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func without[T keyed](list []T, key string) ([]T, bool) {
	out := make([]T, 0, len(list))
	removed := false
	for _, v := range list {
		if v.Key() == key {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

// saveInList upserts item into the list stored under key.
func saveInList[T keyed](ctx context.Context, store BlobStore, key string, item T) error {
	list, err := readList[T](ctx, store, key)
	if err != nil {
		return err
	}
	return writeBlob(ctx, store, key, upsert(list, item))
}

// deleteFromList is a no-op when id is not in the list.
func deleteFromList[T keyed](ctx context.Context, store BlobStore, key, id string) error {
	list, err := readList[T](ctx, store, key)
	if err != nil {
		return err
	}
	list, removed := without(list, id)
	if !removed {
		return nil
	}
	return writeBlob(ctx, store, key, list)
}

// --- Profile & goals ---

func (b *BlobBackend) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok, err := readBlob[models.UserProfile](ctx, b.store, KeyProfile)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (b *BlobBackend) SaveProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p.UpdatedAt = b.now()
	if err := writeBlob(ctx, b.store, KeyProfile, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *BlobBackend) GetDailyGoals(ctx context.Context) (*models.DailyGoals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, _, err := readBlob[models.DailyGoals](ctx, b.store, KeyDailyGoals)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (b *BlobBackend) SaveDailyGoals(ctx context.Context, g models.DailyGoals) (*models.DailyGoals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g.UpdatedAt = b.now()
	if err := writeBlob(ctx, b.store, KeyDailyGoals, g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (b *BlobBackend) GetWeeklyGoals(ctx context.Context) (*models.WeeklyGoals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, _, err := readBlob[models.WeeklyGoals](ctx, b.store, KeyWeeklyGoals)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (b *BlobBackend) SaveWeeklyGoals(ctx context.Context, g models.WeeklyGoals) (*models.WeeklyGoals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g.UpdatedAt = b.now()
	if err := writeBlob(ctx, b.store, KeyWeeklyGoals, g); err != nil {
		return nil, err
	}
	return &g, nil
}

// --- Fitness ---

func (b *BlobBackend) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.Workout](ctx, b.store, KeyWorkouts)
}

func (b *BlobBackend) SaveWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w.ID == "" {
		w.ID = b.newID()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = b.now()
	}
	if err := saveInList(ctx, b.store, KeyWorkouts, w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWeightHistory returns entries in the order they were first recorded.
func (b *BlobBackend) ListWeightHistory(ctx context.Context) ([]models.WeightEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.WeightEntry](ctx, b.store, KeyWeightHistory)
}

// SaveWeightEntry keeps a single entry per date. A new entry for a date
// already recorded takes over that entry's id and position; moving an
// existing entry onto a recorded date drops the other one.
func (b *BlobBackend) SaveWeightEntry(ctx context.Context, e models.WeightEntry) (*models.WeightEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e.Date == "" {
		e.Date = b.now().Format(time.DateOnly)
	}
	list, err := readList[models.WeightEntry](ctx, b.store, KeyWeightHistory)
	if err != nil {
		return nil, err
	}
	sameDate, known := -1, false
	for i, existing := range list {
		if existing.Date == e.Date && sameDate < 0 {
			sameDate = i
		}
		if e.ID != "" && existing.ID == e.ID {
			known = true
		}
	}
	switch {
	case sameDate >= 0 && !known:
		e.ID = list[sameDate].ID
	case sameDate >= 0 && list[sameDate].ID != e.ID:
		list = append(list[:sameDate], list[sameDate+1:]...)
	case e.ID == "":
		e.ID = b.newID()
	}
	if err := writeBlob(ctx, b.store, KeyWeightHistory, upsert(list, e)); err != nil {
		return nil, err
	}
	return &e, nil
}

func (b *BlobBackend) ListCustomPrograms(ctx context.Context) ([]models.CustomProgram, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.CustomProgram](ctx, b.store, KeyCustomPrograms)
}

func (b *BlobBackend) SaveCustomProgram(ctx context.Context, p models.CustomProgram) (*models.CustomProgram, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.ID == "" {
		p.ID = b.newID()
	}
	p.UpdatedAt = b.now()
	if err := saveInList(ctx, b.store, KeyCustomPrograms, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *BlobBackend) DeleteCustomProgram(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return deleteFromList[models.CustomProgram](ctx, b.store, KeyCustomPrograms, id)
}

// --- Nutrition ---

func (b *BlobBackend) ListCustomMealPlans(ctx context.Context) ([]models.CustomMealPlan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.CustomMealPlan](ctx, b.store, KeyCustomMealPlans)
}

func (b *BlobBackend) SaveCustomMealPlan(ctx context.Context, p models.CustomMealPlan) (*models.CustomMealPlan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.ID == "" {
		p.ID = b.newID()
	}
	p.UpdatedAt = b.now()
	if err := saveInList(ctx, b.store, KeyCustomMealPlans, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *BlobBackend) DeleteCustomMealPlan(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return deleteFromList[models.CustomMealPlan](ctx, b.store, KeyCustomMealPlans, id)
}

func (b *BlobBackend) ListNutritionLogs(ctx context.Context) ([]models.NutritionLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.NutritionLog](ctx, b.store, KeyNutritionLogs)
}

func (b *BlobBackend) GetNutritionLog(ctx context.Context, date string) (*models.NutritionLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	logs, err := readList[models.NutritionLog](ctx, b.store, KeyNutritionLogs)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].Date == date {
			return &logs[i], nil
		}
	}
	return nil, nil
}

// SaveNutritionLog upserts by date and assigns ids to meals that lack one.
func (b *BlobBackend) SaveNutritionLog(ctx context.Context, l models.NutritionLog) (*models.NutritionLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l.Date == "" {
		l.Date = b.now().Format(time.DateOnly)
	}
	if l.Meals == nil {
		l.Meals = []models.MealEntry{}
	}
	for i := range l.Meals {
		if l.Meals[i].ID == "" {
			l.Meals[i].ID = b.newID()
		}
	}
	l.UpdatedAt = b.now()
	if err := saveInList(ctx, b.store, KeyNutritionLogs, l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (b *BlobBackend) ListSupplements(ctx context.Context) ([]models.Supplement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.Supplement](ctx, b.store, KeySupplements)
}

func (b *BlobBackend) SaveSupplement(ctx context.Context, s models.Supplement) (*models.Supplement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.ID == "" {
		s.ID = b.newID()
	}
	if err := saveInList(ctx, b.store, KeySupplements, s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *BlobBackend) DeleteSupplement(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return deleteFromList[models.Supplement](ctx, b.store, KeySupplements, id)
}

// --- Holistic ---

func (b *BlobBackend) GetHolisticGoals(ctx context.Context) (models.HolisticGoals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	goals, _, err := readBlob[models.HolisticGoals](ctx, b.store, KeyHolisticGoals)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = models.HolisticGoals{}
	}
	return goals, nil
}

func (b *BlobBackend) SaveHolisticGoal(ctx context.Context, domain models.Domain, goal json.RawMessage) (models.HolisticGoals, error) {
	if !domain.Valid() {
		return nil, InvalidRecord("save", KeyHolisticGoals, errors.Errorf("unknown goal domain %q", domain))
	}
	if !isJSONObject(goal) {
		return nil, InvalidRecord("save", KeyHolisticGoals, errors.Errorf("goal for %s must be a JSON object", domain))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	goals, _, err := readBlob[models.HolisticGoals](ctx, b.store, KeyHolisticGoals)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = models.HolisticGoals{}
	}
	goals[domain] = goal
	if err := writeBlob(ctx, b.store, KeyHolisticGoals, goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (b *BlobBackend) ListFinancialGoals(ctx context.Context) ([]models.FinancialGoal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.FinancialGoal](ctx, b.store, KeyFinancialGoals)
}

func (b *BlobBackend) SaveFinancialGoals(ctx context.Context, goals []models.FinancialGoal) ([]models.FinancialGoal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.FinancialGoal, len(goals))
	copy(out, goals)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = b.newID()
		}
	}
	if err := writeBlob(ctx, b.store, KeyFinancialGoals, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BlobBackend) ListIntellectualGoals(ctx context.Context) ([]models.IntellectualGoal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.IntellectualGoal](ctx, b.store, KeyIntellectualGoals)
}

func (b *BlobBackend) SaveIntellectualGoals(ctx context.Context, goals []models.IntellectualGoal) ([]models.IntellectualGoal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.IntellectualGoal, len(goals))
	copy(out, goals)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = b.newID()
		}
	}
	if err := writeBlob(ctx, b.store, KeyIntellectualGoals, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BlobBackend) ListCareerMilestones(ctx context.Context) ([]models.CareerMilestone, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.CareerMilestone](ctx, b.store, KeyCareerMilestones)
}

func (b *BlobBackend) AddCareerMilestone(ctx context.Context, m models.CareerMilestone) (*models.CareerMilestone, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m.ID == "" {
		m.ID = b.newID()
	}
	if m.Date == "" {
		m.Date = b.now().Format(time.DateOnly)
	}
	list, err := readList[models.CareerMilestone](ctx, b.store, KeyCareerMilestones)
	if err != nil {
		return nil, err
	}
	list, _ = without(list, m.ID)
	list = append([]models.CareerMilestone{m}, list...)
	if err := writeBlob(ctx, b.store, KeyCareerMilestones, list); err != nil {
		return nil, err
	}
	return &m, nil
}

func (b *BlobBackend) DeleteCareerMilestone(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return deleteFromList[models.CareerMilestone](ctx, b.store, KeyCareerMilestones, id)
}

func (b *BlobBackend) ListHealthConsiderations(ctx context.Context) ([]models.HealthConsideration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.HealthConsideration](ctx, b.store, KeyHealthConsiderations)
}

func (b *BlobBackend) SaveHealthConsideration(ctx context.Context, c models.HealthConsideration) (*models.HealthConsideration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c.ID == "" {
		c.ID = b.newID()
	}
	if err := saveInList(ctx, b.store, KeyHealthConsiderations, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (b *BlobBackend) DeleteHealthConsideration(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return deleteFromList[models.HealthConsideration](ctx, b.store, KeyHealthConsiderations, id)
}

// --- Mindfulness ---

func (b *BlobBackend) ListMindfulnessSessions(ctx context.Context) ([]models.MindfulnessSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readList[models.MindfulnessSession](ctx, b.store, KeyMindfulnessSessions)
}

func (b *BlobBackend) SaveMindfulnessSession(ctx context.Context, s models.MindfulnessSession) (*models.MindfulnessSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := readList[models.MindfulnessSession](ctx, b.store, KeyMindfulnessSessions)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		s.ID = b.newID()
	}
	for _, existing := range list {
		if existing.ID != s.ID {
			continue
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = existing.CreatedAt
		}
		if s.Date == "" {
			s.Date = existing.Date
		}
		break
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = b.now()
	}
	if s.Date == "" {
		s.Date = s.CreatedAt.Format(time.DateOnly)
	}
	if err := writeBlob(ctx, b.store, KeyMindfulnessSessions, upsert(list, s)); err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *BlobBackend) DeleteMindfulnessSession(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return deleteFromList[models.MindfulnessSession](ctx, b.store, KeyMindfulnessSessions, id)
}

func (b *BlobBackend) ClearAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return classify("clear", "", b.store.Delete(ctx, CollectionKeys...))
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
