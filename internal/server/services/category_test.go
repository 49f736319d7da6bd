package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

func TestCategoryList_ReturnsOwnerRecords(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.listOut = []*models.Category{
		{ID: 1, UserID: "u-1", Name: "Work"},
		{ID: 2, UserID: "u-1", Name: "Home"},
	}
	svc := NewCategoryService(db, rm)

	got, err := svc.List(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Work" {
		t.Fatalf("unexpected categories: %+v", got)
	}
}

func TestCategoryCreate_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.createOut = &models.Category{ID: 5, UserID: "u-1", Name: "Work"}
	svc := NewCategoryService(db, rm)

	got, err := svc.Create(context.Background(), "u-1", "Work")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected category: %+v", got)
	}
}

func TestCategoryCreate_DuplicateForSameOwner(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.byOwnerAndName = map[string]*models.Category{
		"u-1/Work": {ID: 5, UserID: "u-1", Name: "Work"},
	}
	svc := NewCategoryService(db, rm)

	_, err := svc.Create(context.Background(), "u-1", "Work")

	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["name"][0] != "category with this name already exists." {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
}

// The name lookup folds case, so "work" collides with an existing "Work"
// the same way an exact duplicate does.
func TestCategoryCreate_DuplicateDifferentCaseRejected(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.byOwnerAndName = map[string]*models.Category{
		"u-1/Work": {ID: 5, UserID: "u-1", Name: "Work"},
	}
	svc := NewCategoryService(db, rm)

	_, err := svc.Create(context.Background(), "u-1", "work")

	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["name"][0] != "category with this name already exists." {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
}

// A repository failure during the duplicate pre-check keeps its cause.
func TestCategoryCreate_NameCheckFailureCarriesCause(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.getByNameErr = errors.New("conn reset")
	svc := NewCategoryService(db, rm)

	_, err := svc.Create(context.Background(), "u-1", "Work")

	var ve *common.ValidationError
	if errors.As(err, &ve) {
		t.Fatalf("expected plain error, got ValidationError %+v", ve.Fields)
	}
	if err == nil || !strings.Contains(err.Error(), "conn reset") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestCategoryCreate_SameNameDifferentOwnerSucceeds(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	// "Work" exists for u-1 only; u-2 may reuse the name.
	rm.c.byOwnerAndName = map[string]*models.Category{
		"u-1/Work": {ID: 5, UserID: "u-1", Name: "Work"},
	}
	svc := NewCategoryService(db, rm)

	got, err := svc.Create(context.Background(), "u-2", "Work")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.UserID != "u-2" || got.Name != "Work" {
		t.Fatalf("unexpected category: %+v", got)
	}
}

func TestCategoryCreate_MissingName(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	svc := NewCategoryService(db, rm)

	_, err := svc.Create(context.Background(), "u-1", "")

	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields["name"]) == 0 {
		t.Fatalf("expected message on name, got %+v", ve.Fields)
	}
}

func TestCategoryCreate_NameTooLong(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	svc := NewCategoryService(db, rm)

	_, err := svc.Create(context.Background(), "u-1", strings.Repeat("x", 51))

	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCategoryCreate_ConcurrentDuplicateFromConstraint(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.createErr = common.ErrorAlreadyExists
	svc := NewCategoryService(db, rm)

	_, err := svc.Create(context.Background(), "u-1", "Work")

	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError from constraint, got %v", err)
	}
}
