package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateClassHandler_Handle(t *testing.T) {
	now := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)
	sourceRef := uuid.New()

	newHandler := func(
		classRepo *mockLiveClassRepo,
		sessionRepo *mockSessionRepo,
		catalogReader *mockCatalogReader,
		uow *mockUnitOfWork,
	) *CreateClassHandler {
		h := NewCreateClassHandler(classRepo, sessionRepo, catalogReader, extendTestPlanner(), uow, nil)
		h.now = func() time.Time { return now }
		return h
	}

	t.Run("creates the class with its initial schedule", func(t *testing.T) {
		classRepo := new(mockLiveClassRepo)
		sessionRepo := new(mockSessionRepo)
		catalogReader := new(mockCatalogReader)
		uow := new(mockUnitOfWork)
		handler := newHandler(classRepo, sessionRepo, catalogReader, uow)

		catalogReader.On("ListItems", mock.Anything, sourceRef).Return(extendCatalog(3), nil)
		classRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.LiveClass")).Return(nil)
		uow.On("Begin", mock.Anything).Return(context.Background(), nil)
		uow.On("Commit", mock.Anything).Return(nil)
		sessionRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)

		result, err := handler.Handle(context.Background(), sourceRef)
		require.NoError(t, err)

		// Two extension days at three slots each.
		assert.Equal(t, 6, result.SessionsCreated)
		assert.Equal(t, sourceRef, result.Class.ContentSourceRef())
		assert.True(t, result.Class.IsActive())
		classRepo.AssertNumberOfCalls(t, "Save", 2)
		classRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty catalog refuses creation", func(t *testing.T) {
		classRepo := new(mockLiveClassRepo)
		catalogReader := new(mockCatalogReader)
		handler := newHandler(classRepo, new(mockSessionRepo), catalogReader, new(mockUnitOfWork))

		catalogReader.On("ListItems", mock.Anything, sourceRef).Return([]domain.CatalogItem{}, nil)

		_, err := handler.Handle(context.Background(), sourceRef)
		assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
		classRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failed schedule persist removes the class again", func(t *testing.T) {
		classRepo := new(mockLiveClassRepo)
		sessionRepo := new(mockSessionRepo)
		catalogReader := new(mockCatalogReader)
		uow := new(mockUnitOfWork)
		handler := newHandler(classRepo, sessionRepo, catalogReader, uow)

		catalogReader.On("ListItems", mock.Anything, sourceRef).Return(extendCatalog(3), nil)
		classRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		uow.On("Begin", mock.Anything).Return(context.Background(), nil)
		uow.On("Rollback", mock.Anything).Return(nil)
		sessionRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		classRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

		_, err := handler.Handle(context.Background(), sourceRef)
		assert.Error(t, err)
		classRepo.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("uuid.UUID"))
	})
}
