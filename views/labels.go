package views

import "strings"

// Labels are the UI strings for one locale.
type Labels struct {
	LoadMore        string
	Retry           string
	LoadFailed      string
	Loading         string
	ReadingTime     string // printf format taking minutes
	NotFound        string
	NotFoundBody    string
	ServerError     string
	TooManyRequests string
	BackHome        string
	ContinueNoJS    string
	HomeTitle       string
	LangAttribute   string
}

var labels = map[string]Labels{
	"pt-BR": {
		LoadMore:        "Carregar mais posts",
		Retry:           "Tentar novamente",
		LoadFailed:      "Não foi possível carregar mais posts.",
		Loading:         "Carregando...",
		ReadingTime:     "%d min",
		NotFound:        "Post não encontrado",
		NotFoundBody:    "O post que você procura não existe ou foi removido.",
		ServerError:     "Algo deu errado. Tente novamente em instantes.",
		TooManyRequests: "Muitas requisições. Aguarde um minuto e tente novamente.",
		BackHome:        "Voltar para o início",
		ContinueNoJS:    "Abrir o post",
		HomeTitle:       "Home",
		LangAttribute:   "pt-BR",
	},
	"en": {
		LoadMore:        "Load more posts",
		Retry:           "Try again",
		LoadFailed:      "Could not load more posts.",
		Loading:         "Loading...",
		ReadingTime:     "%d min",
		NotFound:        "Post not found",
		NotFoundBody:    "The post you are looking for does not exist or was removed.",
		ServerError:     "Something went wrong. Please try again shortly.",
		TooManyRequests: "Too many requests. Wait a minute and try again.",
		BackHome:        "Back to home",
		ContinueNoJS:    "Open the post",
		HomeTitle:       "Home",
		LangAttribute:   "en",
	},
}

// Labels returns the strings for cfg.Locale, falling back to pt-BR.
func (cfg SiteConfig) Labels() Labels {
	if l, ok := labels[cfg.Locale]; ok {
		return l
	}
	if i := strings.IndexByte(cfg.Locale, '-'); i > 0 {
		if l, ok := labels[cfg.Locale[:i]]; ok {
			return l
		}
	}
	return labels["pt-BR"]
}
