package di

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/bifrostdocs/internal/errors"
)

type testService struct {
	name string
}

type testDependentService struct {
	dependency *testService
}

type closer struct {
	closed *[]string
	name   string
}

func (c *closer) Shutdown(ctx context.Context) error {
	*c.closed = append(*c.closed, c.name)
	return nil
}

func TestServiceContainer_BasicRegistration(t *testing.T) {
	container := NewServiceContainer()
	container.Register("test", func(resolver DependencyResolver) (interface{}, error) {
		return &testService{name: "test-service"}, nil
	})

	service, err := container.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "test-service", service.(*testService).name)
	assert.True(t, container.Has("test"))
	assert.False(t, container.Has("missing"))
}

func TestServiceContainer_TransientCreatesNewInstances(t *testing.T) {
	container := NewServiceContainer()
	container.Register("transient", func(resolver DependencyResolver) (interface{}, error) {
		return &testService{}, nil
	})

	a := container.MustGet("transient")
	b := container.MustGet("transient")
	assert.NotSame(t, a, b)
}

func TestServiceContainer_SingletonBehavior(t *testing.T) {
	container := NewServiceContainer()
	var created atomic.Int32
	container.RegisterSingleton("single", func(resolver DependencyResolver) (interface{}, error) {
		created.Add(1)
		return &testService{name: "single"}, nil
	})

	var wg sync.WaitGroup
	results := make([]interface{}, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = container.MustGet("single")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestServiceContainer_Dependencies(t *testing.T) {
	container := NewServiceContainer()
	container.RegisterInstance("dep", &testService{name: "dep"})
	container.Register("dependent", func(resolver DependencyResolver) (interface{}, error) {
		dep, err := Resolve[*testService](resolver, "dep")
		if err != nil {
			return nil, err
		}
		return &testDependentService{dependency: dep}, nil
	})

	svc, err := Resolve[*testDependentService](container, "dependent")
	require.NoError(t, err)
	assert.Equal(t, "dep", svc.dependency.name)

	_, err = Resolve[*testDependentService](container, "dep")
	assert.True(t, errors.HasCode(err, errors.CodeProviderMissing))
}

func TestServiceContainer_CircularDependency(t *testing.T) {
	container := NewServiceContainer()
	container.RegisterSingleton("a", func(resolver DependencyResolver) (interface{}, error) {
		return resolver.Get("b")
	})
	container.Register("b", func(resolver DependencyResolver) (interface{}, error) {
		return resolver.Get("a")
	})

	_, err := container.Get("a")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeCircularProvider))

	// A failed singleton is not cached.
	container.RegisterSingleton("b", func(resolver DependencyResolver) (interface{}, error) {
		return &testService{name: "b"}, nil
	})
	instance, err := container.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "b", instance.(*testService).name)
}

func TestServiceContainer_Missing(t *testing.T) {
	container := NewServiceContainer()

	_, err := container.Get("nope")
	assert.True(t, errors.HasCode(err, errors.CodeProviderMissing))
	assert.Panics(t, func() { container.MustGet("nope") })
}

func TestServiceContainer_FactoryError(t *testing.T) {
	container := NewServiceContainer()
	container.RegisterSingleton("broken", func(resolver DependencyResolver) (interface{}, error) {
		return nil, fmt.Errorf("no disk")
	})

	_, err := container.Get("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no disk")
}

func TestServiceContainer_Shutdown(t *testing.T) {
	var closed []string
	container := NewServiceContainer()
	container.RegisterInstance("first", &closer{closed: &closed, name: "first"})
	container.RegisterSingleton("second", func(resolver DependencyResolver) (interface{}, error) {
		return &closer{closed: &closed, name: "second"}, nil
	})
	container.RegisterSingleton("never", func(resolver DependencyResolver) (interface{}, error) {
		return &closer{closed: &closed, name: "never"}, nil
	})
	container.MustGet("second")

	require.NoError(t, container.Shutdown(context.Background()))
	assert.Equal(t, []string{"second", "first"}, closed)
	assert.Equal(t, []string{"first", "never", "second"}, container.Names())
}
