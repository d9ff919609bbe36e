package contracts

import "github.com/julienschmidt/httprouter"

// Handler is any component that can mount its routes on the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
