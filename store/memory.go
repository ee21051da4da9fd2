package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/library-graphql/models"
)

// MemoryDB keeps the catalog in process memory. It honours the same unique
// name/username constraints as the MongoDB indexes and is used for local runs
// (MONGODB_URI=memory) and tests.
type MemoryDB struct {
	mu      sync.RWMutex
	books   []models.Book
	authors map[primitive.ObjectID]models.Author
	users   map[primitive.ObjectID]models.User
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		authors: make(map[primitive.ObjectID]models.Author),
		users:   make(map[primitive.ObjectID]models.User),
	}
}

func (m *MemoryDB) EnsureIndexes(context.Context) error { return nil }

func (m *MemoryDB) Disconnect(context.Context) error { return nil }

func (m *MemoryDB) CountBooks(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.books)), nil
}

func (m *MemoryDB) InsertBook(_ context.Context, book *models.Book) (primitive.ObjectID, error) {
	if err := book.Validate(); err != nil {
		return primitive.NilObjectID, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.authors[book.Author]; !ok {
		return primitive.NilObjectID, errors.Errorf("insert book: unknown author %s", book.Author.Hex())
	}
	b := *book
	b.ID = primitive.NewObjectID()
	b.Genres = append([]string{}, book.Genres...)
	m.books = append(m.books, b)
	return b.ID, nil
}

func (m *MemoryDB) FindBooks(_ context.Context, filter BookFilter) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Book{}
	for i := range m.books {
		if filter.Matches(&m.books[i]) {
			b := m.books[i]
			b.Genres = append([]string{}, b.Genres...)
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryDB) CountBooksByAuthor(_ context.Context, authorID primitive.ObjectID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, b := range m.books {
		if b.Author == authorID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryDB) BookCountsByAuthor(context.Context) (map[primitive.ObjectID]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[primitive.ObjectID]int64)
	for _, b := range m.books {
		counts[b.Author]++
	}
	return counts, nil
}

func (m *MemoryDB) CountAuthors(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.authors)), nil
}

func (m *MemoryDB) AllAuthors(context.Context) ([]models.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Author, 0, len(m.authors))
	for _, a := range m.authors {
		out = append(out, copyAuthor(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryDB) AuthorByName(_ context.Context, name string) (*models.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authorByNameLocked(name), nil
}

func (m *MemoryDB) authorByNameLocked(name string) *models.Author {
	for _, a := range m.authors {
		if a.Name == name {
			c := copyAuthor(a)
			return &c
		}
	}
	return nil
}

func (m *MemoryDB) AuthorByID(_ context.Context, id primitive.ObjectID) (*models.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.authors[id]
	if !ok {
		return nil, nil
	}
	c := copyAuthor(a)
	return &c, nil
}

func (m *MemoryDB) AuthorsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.Author, len(ids))
	for _, id := range ids {
		if a, ok := m.authors[id]; ok {
			out[id] = copyAuthor(a)
		}
	}
	return out, nil
}

func (m *MemoryDB) UpsertAuthor(_ context.Context, name string) (*models.Author, error) {
	if err := models.ValidateAuthorName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.authorByNameLocked(name); a != nil {
		return a, nil
	}
	a := models.Author{ID: primitive.NewObjectID(), Name: name, CreatedAt: time.Now()}
	m.authors[a.ID] = a
	return &a, nil
}

func (m *MemoryDB) SetAuthorBorn(_ context.Context, name string, born int) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.authors {
		if a.Name != name {
			continue
		}
		b := born
		a.Born = &b
		m.authors[id] = a
		c := copyAuthor(a)
		return &c, nil
	}
	return nil, nil
}

func (m *MemoryDB) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	if err := user.Validate(); err != nil {
		return primitive.NilObjectID, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return primitive.NilObjectID, errors.Wrap(ErrDuplicate, "insert user")
		}
	}
	u := *user
	u.ID = primitive.NewObjectID()
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *MemoryDB) UserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryDB) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func copyAuthor(a models.Author) models.Author {
	if a.Born != nil {
		b := *a.Born
		a.Born = &b
	}
	return a
}
