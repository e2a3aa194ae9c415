package model

// Decorator enriches a form model after the entity definition built it, for
// example to attach option lists or labels.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// ApplyLabels fills empty labels using labeler.
func ApplyLabels(labeler func(string) string) Decorator {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	return DecoratorFunc(func(form *FormModel) error {
		for i := range form.Fields {
			if form.Fields[i].Label == "" {
				form.Fields[i].Label = labeler(form.Fields[i].Name)
			}
		}
		return nil
	})
}
