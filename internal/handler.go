package internal

// Handler declares explicit routes on the App's Mux.
//
//	type Feed struct {
//	    posts *record.Mapper[*Post]
//	}
//
//	func (h *Feed) Routes(m simplesite.Mux) {
//	    m.GET("/feed.json", h.list)
//	}
type Handler interface {
	Routes(m Mux)
}

// HandlerFunc handles a request. A returned error goes to the App's error
// handler, except *Terminate, which is written as a redirect.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
//
//	func Admin(next simplesite.HandlerFunc) simplesite.HandlerFunc {
//	    return func(c simplesite.Context) error {
//	        if c.Header("X-Admin") == "" {
//	            return simplesite.ErrForbidden("")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler answers for a handler that returned an error.
type ErrorHandler func(Context, error) error
