package initialize

import (
	"fmt"
	"iter"
	"strings"

	"github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/logger"
)

// SelectByOrder returns the candidate with the highest SelectOrder. When
// several share the maximum, the first one seen wins.
func SelectByOrder[T Orderable](log *logger.Logger, candidates iter.Seq[T], name string) (T, error) {
	var (
		chosen T
		order  int
		found  bool
	)
	for c := range candidates {
		current := c.SelectOrder()
		if !found || current > order {
			chosen, order, found = c, current, true
		}
		log.Info(fmt.Sprintf("Found %T as %s implementation with select order %d.", c, name, current))
	}
	if !found {
		return chosen, fail(log, errors.NoImplementation(name))
	}
	logChosen(log, name, chosen)
	return chosen, nil
}

// SelectOnly returns the single candidate. Zero or several candidates fail.
func SelectOnly[T any](log *logger.Logger, candidates iter.Seq[T], name string) (T, error) {
	var (
		chosen T
		count  int
	)
	for c := range candidates {
		count++
		chosen = c
		log.Info(fmt.Sprintf("Found %T as %s implementation.", c, name))
	}
	if count == 0 {
		return chosen, fail(log, errors.NoImplementation(name))
	}
	if count > 1 {
		var zero T
		return zero, fail(log, errors.MoreThanOneImplementation(name))
	}
	logChosen(log, name, chosen)
	return chosen, nil
}

// SelectByType collects the candidates by SelectType. It stops at the first
// duplicate key.
func SelectByType[T Typed](log *logger.Logger, candidates iter.Seq[T], name string) (*Types[T], error) {
	types := newTypes[T]()
	for c := range candidates {
		key := c.SelectType()
		log.Info(fmt.Sprintf("Found %T as %s implementation with select type %s.", c, name, key))
		if types.Has(key) {
			return nil, fail(log, errors.DuplicateType(name, key))
		}
		types.add(key, c)
	}
	if types.Len() == 0 {
		return nil, fail(log, errors.NoImplementation(name))
	}
	chosen := make([]string, 0, types.Len())
	for _, key := range types.order {
		chosen = append(chosen, fmt.Sprintf("%s=%T", key, types.byType[key]))
	}
	log.Info(fmt.Sprintf("Using %s implementations by type: %s.", name, strings.Join(chosen, ", ")))
	return types, nil
}

func logChosen(log *logger.Logger, name string, impl any) {
	log.Info(fmt.Sprintf("Using %T as %s implementation.", impl, name))
}

// fail logs err at fatal level and returns it. Logging and failing always go
// together.
func fail(log *logger.Logger, err *errors.AppError) error {
	log.Fatal(err.Message, logger.Fields("code", string(err.Code)))
	return err
}

// Starter runs the selection modes over type-erased candidates. An
// Initializer without WithStarter builds one per load with the load's
// logger.
type Starter interface {
	ImplementationBySelectOrder(candidates iter.Seq[Orderable], name string) (Orderable, error)
	OnlyImplementation(candidates iter.Seq[any], name string) (any, error)
	ImplementationsBySelectType(candidates iter.Seq[Typed], name string) (*Types[Typed], error)
}

type starter struct {
	log *logger.Logger
}

// NewStarter returns the default Starter, logging to log.
func NewStarter(log *logger.Logger) Starter {
	return &starter{log: log}
}

func (s *starter) ImplementationBySelectOrder(candidates iter.Seq[Orderable], name string) (Orderable, error) {
	return SelectByOrder(s.log, candidates, name)
}

func (s *starter) OnlyImplementation(candidates iter.Seq[any], name string) (any, error) {
	return SelectOnly(s.log, candidates, name)
}

func (s *starter) ImplementationsBySelectType(candidates iter.Seq[Typed], name string) (*Types[Typed], error) {
	return SelectByType(s.log, candidates, name)
}
