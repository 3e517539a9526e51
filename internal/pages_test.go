package internal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdaemon/simplesite/internal"
)

type aboutPage struct {
	internal.Base
}

func (p *aboutPage) Index(internal.Context, ...string) error {
	p.SetTitle("About")
	p.SetTemplate("about.html")
	return nil
}

func TestNormalizePageName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Contact Us!":  "contact us",
		"blog":         "blog",
		"Blog-Post_2":  "blogpost2",
		"ÜBER uns":     "ber uns",
		"":             "",
		"  Spaced  ":   "  spaced  ",
		"404 Page?!#$": "404 page",
	}
	for in, want := range tests {
		assert.Equal(t, want, internal.NormalizePageName(in), in)
	}
}

func TestPagesResolve(t *testing.T) {
	t.Parallel()

	pages := internal.NewPages()
	pages.Register("Contact Us", func() internal.Page { return &aboutPage{} })
	pages.Register("about", func() internal.Page { return &aboutPage{} })

	t.Run("normalized lookup", func(t *testing.T) {
		t.Parallel()

		page, err := pages.Resolve("CONTACT us!")
		require.NoError(t, err)

		st := page.State()
		assert.Equal(t, "contact us", st.Name)
		assert.Same(t, page, st.Data[internal.PageKey])
	})

	t.Run("fresh instance per resolve", func(t *testing.T) {
		t.Parallel()

		a, err := pages.Resolve("about")
		require.NoError(t, err)
		b, err := pages.Resolve("about")
		require.NoError(t, err)

		a.State().Title = "changed"
		assert.Empty(t, b.State().Title)
	})

	t.Run("unknown page", func(t *testing.T) {
		t.Parallel()

		_, err := pages.Resolve("missing")
		require.ErrorIs(t, err, internal.ErrPageNotFound)
	})

	t.Run("names", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"about", "contact us"}, pages.Names())
	})
}

func TestPagesRegisterReplaces(t *testing.T) {
	t.Parallel()

	pages := internal.NewPages()
	pages.Register("home", func() internal.Page { return &internal.Base{} })
	pages.Register("Home", func() internal.Page { return &aboutPage{} })

	page, err := pages.Resolve("home")
	require.NoError(t, err)
	assert.IsType(t, &aboutPage{}, page)
	assert.Len(t, pages.Names(), 1)
}

func TestBase(t *testing.T) {
	t.Parallel()

	t.Run("default index", func(t *testing.T) {
		t.Parallel()

		var b internal.Base
		require.ErrorIs(t, b.Index(nil), internal.ErrNoIndex)
	})

	t.Run("state is lazily initialized", func(t *testing.T) {
		t.Parallel()

		var b internal.Base
		b.Assign("k", 1)
		assert.Equal(t, 1, b.State().Data["k"])
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()

		var b internal.Base
		term := internal.AsTerminate(b.Redirect("/login/"))
		require.NotNil(t, term)
		assert.Equal(t, "/login/", term.URL)
		assert.Equal(t, http.StatusMovedPermanently, term.Code)

		term = internal.AsTerminate(b.Redirect(""))
		require.NotNil(t, term)
		assert.Equal(t, "/", term.URL)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		var b internal.Base
		b.NotFound()
		assert.Equal(t, http.StatusNotFound, b.State().Status)
		assert.Equal(t, internal.NotFoundTemplate, b.State().Template)

		b.NotFound("custom_404.html")
		assert.Equal(t, "custom_404.html", b.State().Template)
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		var b internal.Base
		b.SetTemplate("contact.html")
		b.Error([]string{"email is required"})
		assert.Equal(t, internal.ErrorTemplate, b.State().Template)
		assert.Equal(t, []string{"email is required"}, b.State().Data["errors"])
		assert.Zero(t, b.State().Status)

		b.Error("bad", "contact.html")
		assert.Equal(t, "contact.html", b.State().Template)
		assert.Equal(t, "bad", b.State().Data["errors"])
	})
}
