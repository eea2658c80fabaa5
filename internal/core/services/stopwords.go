package services

// Стоп-слова, исключаемые из рейтинга слов: полный испанский список
// плюс частотные английские служебные слова, плюс слова-артефакты
// плейсхолдеров медиа, которые иначе всплывают в топе.
var stopWords = buildStopWords([]string{
	// Испанский
	"de", "la", "que", "el", "en", "y", "a", "los", "se", "del", "las", "un", "por", "con", "no", "una", "su", "para", "es", "al", "lo", "como",
	"más", "pero", "sus", "le", "ya", "o", "fue", "este", "ha", "sí", "porque", "esta", "son", "entre", "está", "cuando", "muy", "sin", "sobre",
	"también", "me", "hasta", "hay", "donde", "han", "quien", "están", "estado", "desde", "todo", "nos", "durante", "estados", "todos", "uno",
	"les", "ni", "contra", "otros", "ese", "eso", "ante", "ellos", "e", "esto", "mí", "antes", "algunos", "qué", "unos", "yo", "otro", "otras",
	"otra", "él", "tanto", "esa", "estos", "mucho", "quienes", "nada", "muchos", "cual", "sea", "poco", "ella", "estar", "estas", "algunas",
	"algo", "nosotros", "mi", "mis", "tú", "te", "ti", "tu", "tus", "ellas", "nosotras", "vosotros", "vosotras", "os", "mío", "mía", "míos",
	"mías", "tuyo", "tuya", "tuyos", "tuyas", "suyo", "suya", "suyos", "suyas", "nuestro", "nuestra", "nuestros", "nuestras", "vuestro",
	"vuestra", "vuestros", "vuestras", "esos", "esas", "estoy", "estás", "estamos", "estáis", "esté", "estés", "estemos", "estéis",
	"estén", "estaría", "estarías", "estaríamos", "estaríais", "estarían", "estaré", "estarás", "estaremos", "estaréis", "estarán", "estaba",
	"estabas", "estábamos", "estabais", "estaban", "estuve", "estuviste", "estuvimos", "estuvisteis", "estuvieron", "estuviera", "estuvieras",
	"estuviéramos", "estuvierais", "estuvieran", "estuviese", "estuvieses", "estuviésemos", "estuvieseis", "estuviesen", "estando", "estada",
	"estadas", "estad", "he", "has", "hemos", "habéis", "haya", "hayas", "hayamos", "hayáis", "hayan", "habría",
	"habrías", "habríamos", "habríais", "habrían", "habré", "habrás", "habremos", "habréis", "habrán", "había", "habías", "habíamos",
	"habíais", "habían", "hube", "hubiste", "hubimos", "hubisteis", "hubieron", "hubiera", "hubieras", "hubiéramos", "hubierais",
	"hubieran", "hubiese", "hubieses", "hubiésemos", "hubieseis", "hubiesen", "haciendo", "hecho", "hecha", "hechos", "hechas", "haced",
	// Английский
	"the", "be", "to", "of", "and", "in", "that", "have", "i", "it", "for", "not", "on", "with", "he", "as", "you", "do", "at", "this",
	"but", "his", "by", "from",
	// Артефакты плейсхолдеров
	"media", "omitted", "multimedia", "omitido", "imagen", "video", "audio", "sticker", "gif", "null", "nan",
})

func buildStopWords(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
