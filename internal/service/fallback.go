package service

import (
	"fmt"

	"verhaal-server/internal/model"
)

// Именованные персонажи и места офлайн-шаблонов. Более конкретные, чем фразы
// промпта: шаблон не может рассчитывать на фантазию модели.
var (
	fallbackHeroes = map[string]string{
		"princess": "Prinses Luna",
		"knight":   "Ridder Finn",
		"animal":   "het slimme vosje Roos",
		"child":    "het avontuurlijke meisje Mila",
	}

	fallbackPlaces = map[string]string{
		"castle": "het magische Kristallen Kasteel",
		"forest": "het Betoverde Woud",
		"ocean":  "de glinsterende Onderwaterwereld",
		"space":  "de eindeloze sterrenruimte",
	}

	fallbackQuests = map[string]string{
		"treasure":   "een verborgen schat te vinden",
		"rescue":     "een vriend in nood te redden",
		"friendship": "nieuwe vrienden te maken",
		"magic":      "echte magie te leren",
	}
)

const (
	genericFallbackHero  = "een avontuurlijke held"
	genericFallbackPlace = "een magische wereld"
	genericFallbackQuest = "een spannend avontuur te beleven"
)

// GenerateFallbackStory синтезирует сказку из детерминированных шаблонов.
// Используется, когда удаленный сервис недоступен или исчерпал квоту:
// доставка сказки никогда не падает только из-за недоступности сервиса.
// Чистая функция без сети, таймстемпов и случайности: одинаковый ChoiceSet
// дает байт-в-байт одинаковый результат. Оба шаблона заканчиваются той же
// финальной строкой, что и удаленная генерация.
func GenerateFallbackStory(choices model.ChoiceSet) string {
	hero := phraseOrDefault(fallbackHeroes, choices.Character, genericFallbackHero)
	place := phraseOrDefault(fallbackPlaces, choices.Setting, genericFallbackPlace)
	quest := phraseOrDefault(fallbackQuests, choices.Adventure, genericFallbackQuest)

	if choices.IsYoung() {
		return youngFallbackStory(hero, place, quest)
	}
	return olderFallbackStory(hero, place, quest)
}

// youngFallbackStory - короткий шаблон для 3-6 лет: простые предложения,
// повторение, звуки.
func youngFallbackStory(hero, place, quest string) string {
	return fmt.Sprintf(`Er was eens %s. %s woonde in %s.

Op een dag wilde %s heel graag %s. "Hoera!", riep %s. "Vandaag ga ik op avontuur!"

Stap, stap, stap. Daar ging %s. De zon scheen. De vogels zongen. "Tsjilp, tsjilp!"

Onderweg kwam %s een kleine egel tegen. "Wil je mij helpen?", vroeg %s lief. "Ja, natuurlijk!", zei de egel. Samen is alles leuker.

Samen lukte het om %s. Wat waren ze blij! Ze dansten en lachten. "Hiep hiep hoera!"

Toen werd het donker. De maan kwam op. %s gaapte. "Wat een fijne dag", fluisterde %s. Tijd om te slapen.

%s`,
		hero, capitalize(hero), place,
		hero, quest, hero,
		hero,
		hero, hero,
		quest,
		capitalize(hero), hero,
		StoryClosingLine)
}

// olderFallbackStory - длинный многосценный шаблон для 7-12 лет.
func olderFallbackStory(hero, place, quest string) string {
	return fmt.Sprintf(`Diep in %s woonde %s. Iedereen in de omgeving kende de verhalen over die bijzondere plek: over geheime paden, fluisterende schaduwen en deuren die alleen opengaan voor wie echt moedig is.

Op een avond, toen de eerste sterren aan de hemel verschenen, vond %s een oude kaart onder een losse steen. Op de kaart stond een route getekend, en onderaan stonden vijf woorden: "Alleen voor wie durft." Het hart van %s bonsde van opwinding. Dit was de kans om %s.

De volgende ochtend begon de reis. De eerste beproeving was een diepe kloof waar een smalle brug overheen liep. Halverwege kraakte de brug gevaarlijk, maar %s haalde diep adem, dacht aan iedereen thuis en zette door. Aan de overkant wachtte een verrassing: een oude uil met grijze veren. "Wie de kloof oversteekt", sprak de uil plechtig, "verdient een raadgever. Ik ga met je mee."

Samen trokken ze verder door %s. Ze schuilden voor een onweersbui in een holle boom, deelden hun laatste stuk brood met een hongerige mier en leerden dat je de weg soms alleen vindt door goed te luisteren. "Moed is niet hetzelfde als geen angst hebben", zei de uil. "Moed is doorgaan, ook als je bang bent."

Op de derde dag bereikten ze het einde van de kaart. Daar, precies zoals de oude tekens beloofden, kreeg %s eindelijk de kans om %s. Het was moeilijker dan verwacht en het lukte niet in één keer. Maar met geduld, slimheid en de hulp van nieuwe vrienden lukte het uiteindelijk wél.

Toen ze terugkeerden, was er feest. Iedereen wilde het verhaal horen, en %s vertelde het keer op keer, elke keer met een glimlach. Want het mooiste van het avontuur was niet de roem. Het mooiste waren de vrienden die onderweg waren gemaakt en de moed die altijd al van binnen zat.

%s`,
		place, hero,
		hero,
		hero, quest,
		hero,
		place,
		hero, quest,
		hero,
		StoryClosingLine)
}
