package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Источники готовой сказки.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Виды отказов конвейера генерации.
const (
	FailureValidation  = "validation"
	FailureAuth        = "auth"
	FailurePersistence = "persistence"
)

var (
	// StoriesGenerated считает успешно доставленные сказки по источнику.
	// Деградация до офлайн-шаблонов невидима пользователю, но видна здесь.
	StoriesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verhaal_stories_generated_total",
		Help: "Количество успешно сгенерированных и сохраненных сказок по источнику.",
	}, []string{"source"})

	// GenerationFailures считает отказы конвейера по виду ошибки.
	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verhaal_generation_failures_total",
		Help: "Количество отказов конвейера генерации по виду ошибки.",
	}, []string{"kind"})

	// TitleFallbacks считает случаи, когда титул не удалось вывести
	// и использован титул по умолчанию.
	TitleFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verhaal_title_fallbacks_total",
		Help: "Количество сказок с титулом по умолчанию.",
	})
)
