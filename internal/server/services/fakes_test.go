package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	categoriesrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/categories"
	prioritiesrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/priorities"
	tasksrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/tasks"
	tokensrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	usersrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

// --- fakes shared by the service tests ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byUserName map[string]*models.User
	byEmail    map[string]*models.User
	byID       map[string]*models.User

	lookupErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if u, ok := f.byUserName[userName]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeTokensRepo struct {
	byKey  map[string]*models.AuthToken
	byUser map[string]*models.AuthToken

	createErr error
	created   []string
	deleted   []string
}

func (f *fakeTokensRepo) Create(ctx context.Context, userID string, key string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, key)
	return nil
}

func (f *fakeTokensRepo) Find(ctx context.Context, key string) (*models.AuthToken, error) {
	if tok, ok := f.byKey[key]; ok {
		return tok, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokensRepo) FindByUser(ctx context.Context, userID string) (*models.AuthToken, error) {
	if tok, ok := f.byUser[userID]; ok {
		return tok, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokensRepo) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakePrioritiesRepo struct {
	byName map[string]*models.Priority
}

func (f *fakePrioritiesRepo) GetByName(ctx context.Context, name string) (*models.Priority, error) {
	if p, ok := f.byName[name]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePrioritiesRepo) List(ctx context.Context) ([]*models.Priority, error) {
	var result []*models.Priority
	for _, p := range f.byName {
		result = append(result, p)
	}
	return result, nil
}

type fakeCategoriesRepo struct {
	listOut []*models.Category
	listErr error

	createOut *models.Category
	createErr error

	byOwnerAndName map[string]*models.Category // key: userID + "/" + name
	getByNameErr   error
}

func (f *fakeCategoriesRepo) List(ctx context.Context, userID string) ([]*models.Category, error) {
	return f.listOut, f.listErr
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return c, nil
}

// GetByName matches case-insensitively, like the Postgres implementation.
func (f *fakeCategoriesRepo) GetByName(ctx context.Context, userID string, name string) (*models.Category, error) {
	if f.getByNameErr != nil {
		return nil, f.getByNameErr
	}
	for _, c := range f.byOwnerAndName {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeTasksRepo struct {
	listOut    []*models.Task
	listCalled bool

	filteredOut      []*models.Task
	filteredCalled   bool
	filteredCategory string
	filteredPriority string

	createOut *models.Task
	createErr error

	getOut *models.Task
	getErr error

	exists    bool
	existsErr error

	replaceErr error
	deleteErr  error
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return t, nil
}

func (f *fakeTasksRepo) GetByID(ctx context.Context, userID string, id int64) (*models.Task, error) {
	return f.getOut, f.getErr
}

func (f *fakeTasksRepo) List(ctx context.Context, userID string) ([]*models.Task, error) {
	f.listCalled = true
	return f.listOut, nil
}

func (f *fakeTasksRepo) ListByCategoryAndPriority(ctx context.Context, userID string, categoryContains, priorityContains string) ([]*models.Task, error) {
	f.filteredCalled = true
	f.filteredCategory = categoryContains
	f.filteredPriority = priorityContains
	return f.filteredOut, nil
}

func (f *fakeTasksRepo) ExistsByTitle(ctx context.Context, userID string, title string, excludeID int64) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeTasksRepo) Replace(ctx context.Context, t *models.Task) error { return f.replaceErr }

func (f *fakeTasksRepo) Delete(ctx context.Context, userID string, id int64) error {
	return f.deleteErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	tk *fakeTokensRepo
	p  *fakePrioritiesRepo
	c  *fakeCategoriesRepo
	t  *fakeTasksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  &fakeUsersRepo{},
		tk: &fakeTokensRepo{},
		p:  &fakePrioritiesRepo{},
		c:  &fakeCategoriesRepo{},
		t:  &fakeTasksRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokensrepo.Repository           { return m.tk }
func (m *fakeRepoManager) Priorities(db dbx.DBTX) prioritiesrepo.Repository   { return m.p }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categoriesrepo.Repository   { return m.c }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository             { return m.t }
