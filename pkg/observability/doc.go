/*
Package observability provides tools for monitoring the webform engine.

It turns the engine's lifecycle hooks into Prometheus metrics and structured log
records. Both are plain domain.LifecycleHooks values, so they can be combined:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	eng, err := webform.New("forms", webform.WithLifecycleHooks(hooks))
*/
package observability
