package llm

const enhanceSystemPrompt = "You are a professional journalist and news editor."

const enhancePromptTemplate = `You are an experienced journalist tasked with expanding a news article from limited information.

Original Title: %s
Source: %s
Category: %s
Country: %s
Raw Content: %s

Please generate an expanded, well-structured news article based on this information.
Your article should be:
1. Factual and based strictly on the provided information
2. Written in journalistic style with an objective tone
3. 3-5 paragraphs long
4. Include quotes only if they were in the original content

Also provide:
1. An improved headline that captures attention while being factual
2. A concise 1-2 sentence summary of the article

Return your response as JSON only, no other text:
{
  "enhancedTitle": "Improved headline",
  "articleContent": "Full expanded article content...",
  "summary": "Brief 1-2 sentence summary"
}`

const variantsSystemPrompt = "You are a content marketing specialist."

const variantsPromptTemplate = `Generate three alternative versions of this news article for different platforms:

Title: %s

Content: %s

Please create:
1. A social media post (180 characters max)
2. A short-form summary (3-4 bullet points)
3. A broadcast script for a news anchor (30 seconds)

Return your response as JSON only, no other text:
{
  "socialPost": "...",
  "shortForm": "...",
  "newsChannel": "..."
}`

const sentimentSystemPrompt = "You are a media analysis expert."

const sentimentPromptTemplate = `Analyze the following news article text for sentiment, objectivity, and key themes:

%s

Provide your analysis as JSON only, no other text:
{
  "sentiment": "positive/negative/neutral",
  "objectivity": 5,
  "keyThemes": ["theme1", "theme2", "theme3"],
  "potentialBias": "description of any detected bias or none if none detected"
}
Objectivity is an integer from 1 to 10 where 10 is completely objective.`
