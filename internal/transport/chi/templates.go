package chi

import (
	"html/template"
	"strconv"

	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
)

var templateFuncs = template.FuncMap{
	"rank": func(i int) int { return i + 1 },
	"num":  func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
	"cost": presenter.FormatCost,
}
