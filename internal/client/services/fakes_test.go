package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
)

/*************
 * Fake backend API
 *************/

type fakeAPI struct {
	mu     sync.Mutex
	cats   []models.Category
	cards  []models.Flashcard
	nextID int64
	calls  int

	err error // returned by every mutating or lookup call when set
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nextID: 100,
		cats:   []models.Category{{ID: 10, Name: "Tech"}},
		cards:  []models.Flashcard{{ID: 1, Question: "What is React?", Answer: "A UI library", CategoryID: 10}},
	}
}

func (f *fakeAPI) call() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Category(nil), f.cats...), nil
}

func (f *fakeAPI) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	panic("not used")
}

func (f *fakeAPI) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := models.Category{ID: f.nextID, Name: in.Name}
	f.cats = append(f.cats, c)
	return &c, nil
}

func (f *fakeAPI) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: in.Name}, nil
}

func (f *fakeAPI) DeleteCategory(ctx context.Context, id int64) error {
	return f.call()
}

func (f *fakeAPI) ListFlashcards(ctx context.Context, categoryID int64) ([]models.Flashcard, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Flashcard(nil), f.cards...), nil
}

func (f *fakeAPI) GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return &models.Flashcard{ID: id, Question: "fetched", Answer: "remote", CategoryID: 10}, nil
}

func (f *fakeAPI) CreateFlashcard(ctx context.Context, in models.FlashcardInput) (*models.Flashcard, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return &models.Flashcard{ID: f.nextID, Question: in.Question, Answer: in.Answer, CategoryID: in.CategoryID}, nil
}

func (f *fakeAPI) UpdateFlashcard(ctx context.Context, id int64, in models.FlashcardInput) (*models.Flashcard, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return &models.Flashcard{ID: id, Question: in.Question, Answer: in.Answer, CategoryID: in.CategoryID}, nil
}

func (f *fakeAPI) DeleteFlashcard(ctx context.Context, id int64) error {
	return f.call()
}

func (f *fakeAPI) SearchFlashcards(ctx context.Context, query string) ([]models.Flashcard, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return []models.Flashcard{{ID: 1, Question: "What is React?", CategoryID: 10}, {ID: 5, Question: "react hooks", CategoryID: 77}}, nil
}

/*************
 * Fake session store
 *************/

type fakeSessions struct {
	session   models.Session
	logins    int
	registers int
	logoutErr error
}

func (f *fakeSessions) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.logins++
	u := &models.User{ID: 1, Email: email}
	f.session = models.Session{User: u, Token: "jwt"}
	return u, nil
}

func (f *fakeSessions) Register(ctx context.Context, email, password string) (*models.User, error) {
	f.registers++
	return &models.User{ID: 2, Email: email}, nil
}

func (f *fakeSessions) Logout(ctx context.Context) error {
	f.session = models.Session{}
	return f.logoutErr
}

func (f *fakeSessions) Snapshot() models.Session { return f.session }

type resetCounter struct{ n int }

func (r *resetCounter) Reset() { r.n++ }
