package stoplist

import "sort"

// Function words for the languages the tokenizer is tuned for.
var (
	english = []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "how", "in", "is", "it", "its", "of", "on", "or",
		"that", "the", "this", "to", "was", "were", "what", "when", "where",
		"who", "why", "with", "you", "your", "our", "we", "us", "they",
		"their", "them", "there", "here", "about", "into", "over", "under",
	}
	german = []string{
		"der", "die", "das", "den", "dem", "des", "ein", "eine", "einer", "eines",
		"einem", "einen", "und", "oder", "aber", "doch", "dass", "daß", "nicht",
		"kein", "keine", "keiner", "keines", "keinem", "keinen", "im", "am", "an",
		"auf", "aus", "bei", "mit", "nach", "von", "vor", "zu", "zum", "zur",
		"über", "unter", "für", "ist", "sind", "war", "waren", "wie", "was",
		"wer", "wo", "wann", "warum", "wieso", "welche", "welcher", "welches",
		"mehr", "anzeige", "anzeigen", "sie", "ihr", "ihre", "ihren", "ihrem",
		"ihres", "wir", "uns", "euch", "euer", "eure",
	}
	dutch = []string{
		"de", "het", "een", "en", "of", "maar", "dat", "die", "dit", "in", "is",
		"op", "te", "van", "voor", "met", "zonder", "naar", "bij", "aan", "uit",
		"ook", "niet", "wel", "we", "wij", "jij", "je", "u", "hun", "ze", "zij",
		"ons", "onze", "jullie", "waar", "wanneer", "waarom",
	}
	spanish = []string{
		"el", "la", "los", "las", "un", "una", "unos", "unas", "y", "o", "pero",
		"de", "del", "al", "en", "para", "por", "con", "sin", "sobre", "entre",
		"como", "que", "qué", "quien", "quién", "cuando", "cuándo", "donde",
		"dónde", "porque", "porqué", "si", "sí", "no", "ya", "más", "muy",
	}
	french = []string{
		"le", "la", "les", "un", "une", "des", "du", "de", "et", "ou", "mais",
		"dans", "sur", "sous", "avec", "sans", "pour", "par", "chez", "entre",
		"au", "aux", "ce", "cet", "cette", "ces", "son", "sa", "ses", "leur",
		"leurs", "mon", "ma", "mes", "ton", "ta", "tes", "notre", "nos",
		"votre", "vos", "qui", "que", "quoi", "dont", "quand",
		"pourquoi", "comment", "est", "sont", "etre", "être", "il", "elle",
		"ils", "elles", "on", "nous", "vous", "je", "tu",
	}
	italian = []string{
		"il", "lo", "la", "i", "gli", "le", "un", "uno", "una", "e", "o", "ma",
		"di", "del", "della", "dei", "degli", "delle", "da", "dal", "dalla",
		"dai", "dagli", "dalle", "in", "nel", "nello", "nella", "nei", "negli",
		"nelle", "su", "sul", "sullo", "sulla", "sui", "sugli", "sulle",
		"per", "tra", "fra", "con", "senza", "che", "chi", "cui", "come",
		"quando", "perche", "perchè", "dove", "qui", "ed",
		"essere", "sono", "era", "erano", "io", "tu", "lui", "lei", "noi",
		"voi", "loro", "mi", "ti", "si", "ci", "vi",
	}
	portuguese = []string{
		"o", "a", "os", "as", "um", "uma", "uns", "umas", "e", "ou", "mas",
		"de", "do", "da", "dos", "das", "em", "no", "na", "nos", "nas",
		"por", "para", "com", "sem", "sobre", "entre", "ao", "aos", "à",
		"às", "que", "quem", "qual", "quais", "quando", "onde", "como",
		"porque", "porquê", "se", "não", "sim", "já", "mais", "muito",
		"ser", "são", "era", "eram", "eu", "tu", "ele", "ela", "nós",
		"vos", "vós", "eles", "elas", "me", "te",
	}
)

// Noise that shows up in titles, URLs and scraped page text.
var (
	web = []string{
		"https", "http", "www", "com", "net", "org", "html", "htm", "php", "asp",
		"css", "js", "json", "xml", "svg", "png", "jpg", "jpeg", "gif", "webp",
		"amp", "utm", "ref", "referrer", "source", "medium", "campaign",
		"index", "home", "default", "login", "signin", "signup",
		"account", "accounts", "user", "users", "profile", "profiles",
		"settings", "setting", "preferences", "prefs", "dashboard", "admin",
		"auth", "oauth", "callback", "redirect", "locale", "lang", "language",
		"session", "sessions", "token", "tokens", "api", "v1", "v2", "v3",
		"docs", "documentation", "help", "support", "faq", "terms", "privacy",
		"policy", "cookie", "cookies", "consent", "about", "contact", "search",
		"news", "blog", "articles", "article", "post", "posts", "tag", "tags",
		"category", "categories", "page", "pages", "view", "views", "edit",
		"new", "create", "update", "delete", "id", "ids", "detail", "details",
	}
	markup = []string{
		"div", "span", "class", "style", "display", "flex", "block",
		"inline", "grid", "webkit", "moz", "ms", "px", "em", "rem",
		"font", "woff", "woff2", "ttf", "otf", "rgba", "rgb", "url",
		"border", "margin", "padding", "center", "box", "banner", "justify",
		"sans", "none", "trustarc", "align", "text",
		"color", "background", "width", "height", "max", "min", "auto",
		"left", "right", "top", "bottom", "relative", "absolute", "fixed",
		"sticky", "position", "overflow", "hidden", "visible", "opacity",
		"uppercase", "lowercase", "capitalize", "transform", "translate",
		"scale", "rotate", "transition", "animation", "keyframes", "ease",
		"linear", "hover", "active", "focus", "before", "after", "content",
		"var", "calc", "gap", "row", "column", "cols", "rows",
		"script", "scripts", "javascript", "typescript", "ts",
		"console", "window", "document", "event", "events", "target",
		"handler", "click", "submit", "input", "change", "keydown", "keyup",
		"mousemove", "mouseenter", "mouseleave", "scroll", "resize",
		"function", "const", "let", "return", "true", "false", "null",
		"undefined", "async", "await", "promise", "then", "catch", "finally",
		"object", "array", "string", "number", "boolean", "prototype",
	}
	dates = []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"mon", "tue", "wed", "thu", "fri", "sat", "sun",
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"am", "pm", "ago", "posted", "updated", "today", "yesterday", "tomorrow",
		"minute", "minutes", "hour", "hours", "day", "days", "week", "weeks",
		"month", "months", "year", "years",
	}
	interfaceWords = []string{
		"subscribe", "subscription", "sponsored", "advertisement", "ads", "ad",
		"newsletter", "share", "shares", "comment", "comments", "reply",
		"follow", "followers", "like", "likes", "menu", "navigation", "skip",
		"loading", "read", "more", "less", "show", "open", "close", "sign",
		"accept", "reject", "manage", "continue", "back", "next", "previous",
	}
)

var staticWords = func() []string {
	lists := [][]string{
		english, german, dutch, spanish, french, italian, portuguese,
		web, markup, dates, interfaceWords,
	}
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, w := range list {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}()

// Static returns the built-in multilingual and noise stopwords, sorted.
// Entries are raw (accents intact); the tokenizer folds them the same way it
// folds input text.
func Static() []string {
	out := make([]string, len(staticWords))
	copy(out, staticWords)
	return out
}
