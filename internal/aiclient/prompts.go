package aiclient

import "fmt"

func blogPrompt(title, url, summary, text string) string {
	return fmt.Sprintf(
		"You are a professional cybersecurity blog writer. "+
			"Write a complete long-form blog post in Markdown based on the source below. "+
			"Include: a strong headline, short TL;DR, sections with headings, and a conclusion. "+
			"Keep factual accuracy: do not invent details not present in the source. "+
			"If information is missing, state it clearly. "+
			"Add a 'Source' section with the original URL at the end.\n\n"+
			"SOURCE_TITLE: %s\n"+
			"SOURCE_URL: %s\n"+
			"SOURCE_SUMMARY: %s\n\n"+
			"SOURCE_TEXT:\n%s\n",
		title, url, summary, text)
}

func darijaPrompt(markdown string) string {
	return fmt.Sprintf(
		"Translate the following Markdown blog post into Moroccan Arabic (Darija). "+
			"Keep Markdown structure (headings, bullet points, links). "+
			"Do not translate URLs. Preserve code blocks exactly.\n\n"+
			"MARKDOWN:\n%s\n",
		markdown)
}

func comicPromptsPrompt(blogText string) string {
	return fmt.Sprintf(
		"You are a creative prompt engineer for manga/anime image generation.\n\n"+
			"Task: Convert a news blog article into 4 fully independent, colored manga image-generation prompts. "+
			"Each prompt corresponds to a manga page depicting the incident in a funny, exaggerated, manga/anime style, "+
			"with dialogue in Moroccan Darija.\n\n"+
			"Instructions:\n\n"+
			"1. Read the blog article carefully.\n"+
			"2. Generate 4 independent prompts (Page 1–4), each standalone:\n"+
			"   - Scene description:\n"+
			"     - Background\n"+
			"     - Characters (appearance, emotions, poses)\n"+
			"     - Key objects/metaphors (coins, malware, mnemonics, warning symbols)\n"+
			"     - Actions/comic exaggeration\n"+
			"   - Dialogue in Moroccan Darija:\n"+
			"     - Maximum 2 text blocks per page in Darija\n"+
			"     - English text allowed for names, logos, numbers, or technical terms\n"+
			"   - Visual style:\n"+
			"     - Manga/anime cyberpunk\n"+
			"     - Colored illustration\n"+
			"     - Strong black ink lines, sketchy/gritty textures\n"+
			"     - Color palette: dominant + accent colors (red for danger, neon for data, etc.)\n"+
			"     - Lighting, cinematic framing, focus\n"+
			"3. Main character rules:\n"+
			"   - If male, always wearing sportif outfit of MAS (Maghreb Association of Sport) of Fez\n"+
			"   - Maintain exaggerated facial expressions and gestures for humor\n"+
			"4. Each prompt must be self-contained; can be generated independently.\n"+
			"5. Output format: each prompt must be inside a fenced code block with language txt.\n\n"+
			"Page 1 Prompt:\n```txt\n...\n```\n"+
			"Page 2 Prompt:\n```txt\n...\n```\n"+
			"Page 3 Prompt:\n```txt\n...\n```\n"+
			"Page 4 Prompt:\n```txt\n...\n```\n\n"+
			"Requirements:\n\n"+
			"- Use metaphors for technical details: mnemonics, crypto theft, malware, backdoor, etc.\n"+
			"- Exaggerated expressions, humorous tone, but story clearly reflects the news incident.\n"+
			"- Colored manga only, no black-and-white.\n"+
			"- Ultra-detailed, cinematic composition, poster-quality illustration.\n\n"+
			"Input blog text:\n%s\n",
		blogText)
}

func pickBestPrompt(candidatesJSON string) string {
	return fmt.Sprintf(
		"You are a LinkedIn editor for a Moroccan tech/cybersecurity audience. "+
			"Pick the single best article to post today for maximum engagement and usefulness.\n\n"+
			"Return ONLY valid JSON with keys: selected_index (0-based integer), reason_short (string).\n\n"+
			"CANDIDATES_JSON:\n%s\n",
		candidatesJSON)
}

func pickTemplatePrompt(templatesText, blogText string) string {
	return fmt.Sprintf(
		"You are a LinkedIn copy chief. Select the best template from the provided list for the blog below. "+
			"Prefer Darija-first bilingual output.\n\n"+
			"Return ONLY valid JSON with keys: template_number (integer 1-9), template_name (string), reason_short (string).\n\n"+
			"TEMPLATES:\n%s\n\n"+
			"BLOG_TEXT:\n%s\n",
		templatesText, blogText)
}

func draftPrompt(templateNumber int, templatesText, blogDarija, blogEnglish, linkURL, brand string) string {
	return fmt.Sprintf(
		"You write high-performing LinkedIn posts for Moroccan tech/cybersecurity. "+
			"Generate ONE bilingual LinkedIn post (primary Arabic Darija, short English secondary) based on the blog.\n\n"+
			"Rules:\n"+
			"- Do NOT include the URL in the post body. Put it in first_comment only.\n"+
			"- The post body should tease value and invite discussion.\n"+
			"- The first_comment must contain the link first on its own line, then the brand on a new line.\n"+
			"- Keep it human, punchy, and readable on LinkedIn.\n\n"+
			"- When writing in Darija, use Arabic Letters.\n\n"+
			"Return ONLY valid JSON with keys:\n"+
			"chosen_template_number (int), post_text (string), first_comment (string), hashtags (array of strings).\n\n"+
			"CHOSEN_TEMPLATE_NUMBER: %d\n\n"+
			"TEMPLATES:\n%s\n\n"+
			"BLOG_DARIJA:\n%s\n\n"+
			"BLOG_ENGLISH:\n%s\n\n"+
			"LINK_URL: %s\n"+
			"BRAND: %s\n",
		templateNumber, templatesText, blogDarija, blogEnglish, linkURL, brand)
}
