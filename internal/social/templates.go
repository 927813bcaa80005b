// Package social builds the daily short-form post draft promoted from the
// pipeline batch.
package social

// Template number bounds for the fixed catalogue below.
const (
	MinTemplateNumber     = 1
	MaxTemplateNumber     = 9
	DefaultTemplateNumber = 2
)

// ValidTemplateNumber clamps a model-selected template number to the
// catalogue, falling back to the default on anything out of range.
func ValidTemplateNumber(n int) int {
	if n < MinTemplateNumber || n > MaxTemplateNumber {
		return DefaultTemplateNumber
	}
	return n
}

// TemplatesText is the post template catalogue handed verbatim to the
// template-selection and draft-generation calls.
const TemplatesText = `### Category A: Breaking News & Alerts (The Core "Hacker News" Vibe)

**1. The "Viral Breakdown" (For major tech updates)**
*Best for: Big announcements like GPT-5, new frameworks, or major hacks.*

> **Headline:** KHBAR 3AJIL 🚨: [Company/Tool] yallah tal9at [New Feature] w l’game ghadi tbeddel!
>
> **The Context:**
> Smitha **[Name of Update]**.
> Ila knti katkhdem b [Technology], ha chno wa9e3, 3lach hadchi mohim, w chno khassk t3ref:
>
> **ACH WA9E3:**
> [Brief explanation of what happened in simple Darija].
>
> **3LACH HADCHI MOHIM:**
> Tkhayel db ghadi t9der [Benefit 1] w [Benefit 2] bla ma t3deb. Hadchi kan kayakhod sa3at, db wla f da9i9a.
>
> **CHNO KHASSK DIR:**
> 1. Dakhel l [Settings/Website].
> 2. Activé [Feature].
> 3. Jerebha 9bel ma itla3 l’hype.
>
> **BAGHI TFEHM KTER?**
> Chre7t details kamlin f l'article/video dyali.
>
> Link f first comment 👇

**2. The "Red Alert" (For Security Vulnerabilities)**
*Best for: Cybersecurity warnings, bugs, and patches.*

> **⚠️ [Number]% Dyal les serveurs [Tech Name] f l'Maghrib i9dro ikouno f danger lyouma.**
>
> Wash khedam b **[Version X, Y, or Z]**?
>
> Ila kan jawab howa "Ah"... rak 7all l'bab l hackers bach [Negative Consequence].
>
> Had Tghra (CVE-XXXX) katkhalihom [Describe the attack simply].
>
> **L'7all? 🛠️**
> Kayan joj torouq bach t3teq l'mawqif:
> 1. **L'Patch:** Tlécharché version jdida [Version Number].
> 2. **Workaround:** [Quick fix if patch isn't ready].
>
> Matgolch "hanta chwiya"... Patché hadchi db.
>
> Details kamlin f l'article. [Link]

---

### Category B: Education & Simplification (The "B'Darija" Value)

**3. The "Layman Metaphor" (Explaining Complex Concepts)**
*Best for: Explaining Kubernetes, Blockchain, APIs, Pointers to juniors.*

> **"[Complex Concept]" — Ach ka t3ni b'Darija? 🤔**
>
> Sma3na b [Concept] bezzaf had liyam, walakin chno hwa l'mochkil b'dabt?
>
> Tkhayel [Concept] bhal [Real world Moroccan metaphor - e.g., Serveur f 9ahwa, Moul Hanout, Taxi].
>
> - [Technical Component A] = [Metaphor Component A]
> - [Technical Component B] = [Metaphor Component B]
>
> **Natija:**
> Hada howa ddor dyal [Concept] f l'architecture. Bla bih, [Negative result].
>
> **Kifash tbedda fih?**
> Ila baghi t3lem hadchi, bda b had l'cours/doc: [Link]
>
> #Education #DarijaTech #Explainer

**4. The "Mistake & Solution" (Career & Code Advice)**
*Best for: Junior dev advice, fixing common bugs, or career growth.*

> **Aghlabiya dyal [Job Title - e.g., Juniors] kaydiro had l'ghalat f [Topic]. ❌**
>
> [Topic] machi sahel, walakin l'mochkil l'kbir howa mlli kadir:
>
> 1. [Common Mistake 1]
> 2. [Common Mistake 2]
> 3. [Common Mistake 3]
>
> **Natija:** [Negative Outcome - e.g., Code t9il, Refus f l'entretien].
>
> **Ha kifash tziyer l'game dyalk:**
> ✅ **Bdal:** [Correct Action 1].
> ✅ **Bdal:** [Correct Action 2].
>
> Jereb had l'method w radd 3lia lkhbar.
>
> Tagué sahibk li mazal kaydir l'ghalat raqm 1! 👇

---

### Category C: Curation & Hidden Gems (The "Source" Vibe)

**5. The "Hidden Treasure" (Tools & Repos)**
*Best for: Sharing open-source tools, VS Code extensions, or useful libraries.*

> **L9it wa7ed Tool f GitHub li ghadi thnik mn [Pain Point - e.g., Postman/CSS/Testing]. 🤯**
>
> Hada wa7ed l’Open Source project yallah ban smito **[Tool Name]**.
>
> **3lach Hreb? (Why it's good):**
> 1. **[Feature 1]:** Kayntegré direct m3a [Platform].
> 2. **[Feature 2]:** Khafif (Lightweight) w makiakelch RAM.
> 3. **[Feature 3]:** Free 100%.
>
> **Context:**
> L'Devs lmgharba, baraka mn lcracks, sta3mlo open source alternatives!
>
> **Jarbouh w golo lia kif jakom?** Link f first comment. 🔗

**6. The "Beautified List" (Top X Resources)**
*Best for: "Top 5 AI tools," "Best YouTube channels for Python," etc.*

> **5 dyal [Resources] li ay [Job Title] khassu ykon 3arefhom (w Free!):**
>
> Ila baghi t-mmetrizi [Skill], hado ahssan ma kayn:
>
> 1️⃣ **[Resource 1]:** Ahssan blassa bach t3lem [Topic].
> 2️⃣ **[Resource 2]:** Hada "Cheat Sheet" nadi.
> 3️⃣ **[Resource 3]:** Library wa3ra l [Specific Task].
> 4️⃣ **[Resource 4]:** Channel fiha tutorials b Darija.
> 5️⃣ **[Resource 5]:** Newsletter khassk t-abonna fiha.
>
> Chkon fihom li deja kate3ref?
>
> Sauvegarder had l'post bach trje3 lih mn b3d 💾.

---

### Category D: Debate & Engagement (The "Hacker Culture" Vibe)

**7. The "Contrarian Truth" (Debunking Myths)**
*Best for: React vs Angular, AI replacing devs, Degree vs Bootcamp.*

> **3 dyal lkdoub kaygolohom lik 3la [Topic - e.g., Coding] f l’Maghrib:**
>
> Sme3t bezzaf dyal l'hadra had liyam, walakin l'wa9i3 chi akhor:
>
> **"Kdba 1: [Common Myth]"**
> ↳ **Reality:** [The blunt truth - e.g., Khassk Logique, machi l'Math].
>
> **"Kdba 2: [Common Myth]"**
> ↳ **Reality:** [The blunt truth].
>
> **"Kdba 3: [Common Myth]"**
> ↳ **Reality:** [The blunt truth].
>
> Chmen kdba khra sma3ti f drayb? 😂
>
> #Debate #DevCommunity #Morocco

**8. The "Hot Take" Prediction**
*Best for: Predicting market trends in Morocco or Tech.*

> **Kan den anna [Topic - e.g., No-Code] ghadi y-domini l'marché f 2025. 📉📈**
>
> Ha chno kan chouf f l'LinkedIn w l'marché:
>
> 1. **[Observation 1]:** Charikat sghar ma3ndhomch budget l Devs kbar.
> 2. **[Observation 2]:** AI wlla kaykteb code.
>
> **Chno kay3ni hadchi lina hna f l'Maghrib?**
>
> Devs li kay3rfo ghir syntax ghadi y9lalo. Devs li kay7ello machakil (Problem Solvers) ghadi tla3 l'valeur dyalhom.
>
> **Enta/Enti: Mtafeq ola la?** 👇

---

### Category E: Storytelling (The "Human" Element)

**9. The "Past Self" Advice**
*Best for: Sharing a personal failure or a bug that took you days to fix.*

> **T3attelt 3 ayam f wa7ed l'bug, w l'7all kan f ster wa7ed. 🤦‍♂️**
>
> L'code kan khdam local, walakin f Prod kaytferge3.
>
> **L'ghalat dyali?**
> Kont kan t7ab anna [Assumption you made].
>
> **Kifash l9itha:**
> B9it kan dir logs 7ta 3yiit, walakin mlli rja3t l documentation, l9it [The Solution].
>
> **Dars li t3lemt:**
> 1. 9ra l'documentation 9bel ma tebda t-codé.
> 2. Matthiqch f l'environnement local 100%.
>
> Chno akber bug hammqek had l'3am?
>
> #DevLife #BugFix #StoryTime
`
