// Package di is the provider container used by the application shell. Providers
// are registered by name with a factory; singletons are created once on first
// use, transient providers on every Get. Circular provider graphs are reported
// instead of recursing forever.
package di

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/conneroisu/bifrostdocs/internal/errors"
)

// FactoryFunc creates a provider instance using the dependency resolver
type FactoryFunc func(resolver DependencyResolver) (interface{}, error)

// DependencyResolver provides safe dependency resolution that prevents circular dependencies
type DependencyResolver interface {
	Get(name string) (interface{}, error)
	MustGet(name string) interface{}
}

// Shutdowner is implemented by providers that hold resources.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ServiceDefinition describes one registered provider.
type ServiceDefinition struct {
	Name      string
	Factory   FactoryFunc
	Singleton bool
}

// ServiceContainer manages dependency injection for the application
type ServiceContainer struct {
	services   map[string]ServiceDefinition
	singletons map[string]interface{}
	creating   map[string]*sync.WaitGroup
	order      []string
	mu         sync.RWMutex
}

// dependencyResolver carries the set of providers being resolved on one Get chain.
type dependencyResolver struct {
	container *ServiceContainer
	resolving map[string]bool
}

func (dr *dependencyResolver) Get(name string) (interface{}, error) {
	return dr.container.getWithResolver(name, dr.resolving)
}

func (dr *dependencyResolver) MustGet(name string) interface{} {
	instance, err := dr.Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to get service '%s': %v", name, err))
	}
	return instance
}

// NewServiceContainer creates an empty container.
func NewServiceContainer() *ServiceContainer {
	return &ServiceContainer{
		services:   make(map[string]ServiceDefinition),
		singletons: make(map[string]interface{}),
		creating:   make(map[string]*sync.WaitGroup),
	}
}

// Register registers a transient provider.
func (c *ServiceContainer) Register(name string, factory FactoryFunc) {
	c.register(ServiceDefinition{Name: name, Factory: factory})
}

// RegisterSingleton registers a provider created at most once.
func (c *ServiceContainer) RegisterSingleton(name string, factory FactoryFunc) {
	c.register(ServiceDefinition{Name: name, Factory: factory, Singleton: true})
}

// RegisterInstance registers an existing instance as a singleton
func (c *ServiceContainer) RegisterInstance(name string, instance interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; !exists {
		c.order = append(c.order, name)
	}
	c.singletons[name] = instance
	c.services[name] = ServiceDefinition{Name: name, Singleton: true}
}

func (c *ServiceContainer) register(def ServiceDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[def.Name]; !exists {
		c.order = append(c.order, def.Name)
	}
	delete(c.singletons, def.Name)
	c.services[def.Name] = def
}

// Has checks if a provider is registered
func (c *ServiceContainer) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	return exists
}

// Names returns the registered provider names sorted.
func (c *ServiceContainer) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get retrieves a provider instance.
func (c *ServiceContainer) Get(name string) (interface{}, error) {
	return c.getWithResolver(name, make(map[string]bool))
}

// MustGet retrieves a provider and panics if it cannot be resolved.
func (c *ServiceContainer) MustGet(name string) interface{} {
	instance, err := c.Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to get service '%s': %v", name, err))
	}
	return instance
}

func (c *ServiceContainer) getWithResolver(name string, resolving map[string]bool) (interface{}, error) {
	if resolving[name] {
		return nil, errors.NewInternalError(errors.CodeCircularProvider,
			fmt.Sprintf("circular dependency detected for service '%s'", name), nil)
	}

	c.mu.RLock()
	definition, exists := c.services[name]
	c.mu.RUnlock()
	if !exists {
		return nil, errors.NewInternalError(errors.CodeProviderMissing,
			fmt.Sprintf("service '%s' not registered", name), nil)
	}

	if !definition.Singleton {
		resolving[name] = true
		instance, err := c.create(definition, resolving)
		delete(resolving, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create service '%s': %w", name, err)
		}
		return instance, nil
	}

	c.mu.Lock()
	if instance, exists := c.singletons[name]; exists {
		c.mu.Unlock()
		return instance, nil
	}
	// Another goroutine is creating this singleton
	if wg, creating := c.creating[name]; creating {
		c.mu.Unlock()
		wg.Wait()
		c.mu.RLock()
		instance, ok := c.singletons[name]
		c.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("failed to create singleton service '%s'", name)
		}
		return instance, nil
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	c.creating[name] = wg
	resolving[name] = true
	c.mu.Unlock()

	instance, err := c.create(definition, resolving)
	delete(resolving, name)

	c.mu.Lock()
	delete(c.creating, name)
	if err == nil {
		c.singletons[name] = instance
	}
	c.mu.Unlock()
	wg.Done()

	if err != nil {
		return nil, fmt.Errorf("failed to create singleton service '%s': %w", name, err)
	}
	return instance, nil
}

func (c *ServiceContainer) create(def ServiceDefinition, resolving map[string]bool) (interface{}, error) {
	if def.Factory == nil {
		return nil, errors.NewInternalError(errors.CodeProviderMissing,
			fmt.Sprintf("service '%s' has no factory", def.Name), nil)
	}
	return def.Factory(&dependencyResolver{container: c, resolving: resolving})
}

// Shutdown stops created singletons in reverse registration order.
func (c *ServiceContainer) Shutdown(ctx context.Context) error {
	c.mu.RLock()
	order := append([]string(nil), c.order...)
	c.mu.RUnlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		c.mu.RLock()
		instance, ok := c.singletons[order[i]]
		c.mu.RUnlock()
		if !ok {
			continue
		}
		if s, ok := instance.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("shutting down %s: %w", order[i], err)
			}
		}
	}
	return firstErr
}

// Resolve fetches name from r and asserts it to T.
func Resolve[T any](r DependencyResolver, name string) (T, error) {
	var zero T
	instance, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.NewInternalError(errors.CodeProviderMissing,
			fmt.Sprintf("service '%s' has type %T, want %T", name, instance, zero), nil)
	}
	return typed, nil
}
