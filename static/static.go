// Package static, React frontend build çıktısını binary'ye gömer ve servis eder.
//
// Build sırasında client/dist/ içeriği server/static/dist/ dizinine kopyalanır,
// ardından Go derleyicisi bu dosyaları binary'ye gömer.
//
// Development modunda dist/ içi boş olabilir (.gitkeep) —
// bu durumda Vite dev server frontend'i servis eder.
//
// Production'da binary frontend'i doğrudan servis eder (SPA fallback ile).
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

// FrontendFS, dist/ dizinindeki frontend build dosyalarını içerir.
// "all:" prefix'i .gitkeep gibi nokta ile başlayan dosyaları da dahil eder.
//
//go:embed all:dist
var FrontendFS embed.FS

// Handler, gömülü frontend'i SPA fallback ile servis eden handler döner.
//
// SPA fallback: "/invite?token=..." gibi client-side route'lar diskte dosya
// olarak bulunmaz — bilinmeyen her path index.html'e düşer, routing'i
// tarayıcıdaki React router devralır. "/assets/..." gibi gerçek dosyalar
// normal şekilde servis edilir.
func Handler() http.Handler {
	dist, err := fs.Sub(FrontendFS, "dist")
	if err != nil {
		// go:embed garantisi: dist/ her zaman vardır
		panic(err)
	}

	fileServer := http.FileServer(http.FS(dist))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path != "" {
			if f, err := dist.Open(path); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFileFS(w, r, dist, "index.html")
	})
}
