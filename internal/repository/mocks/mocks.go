package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/template"
)

// KVStore is a mock for repository.KVStore.
type KVStore struct {
	mock.Mock
}

func (m *KVStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *KVStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *KVStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// CustomItemRepository is a mock for customitem.Repository.
type CustomItemRepository struct {
	mock.Mock
}

func (m *CustomItemRepository) Load(ctx context.Context) ([]customitem.Item, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]customitem.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CustomItemRepository) Save(ctx context.Context, items []customitem.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// TemplateRepository is a mock for template.Repository.
type TemplateRepository struct {
	mock.Mock
}

func (m *TemplateRepository) Load(ctx context.Context) ([]template.Template, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]template.Template); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) Save(ctx context.Context, templates []template.Template) error {
	args := m.Called(ctx, templates)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
