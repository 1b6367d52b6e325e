package ai

// ExtractionPrompt instructs the vision model to emit the OCR result shape in
// the 1000x1100 page space.
const ExtractionPrompt = `Analyze this resume image and extract ALL text with their exact visual positions.

Return a JSON object with this EXACT structure:
{
  "pageWidth": 1000,
  "pageHeight": 1100,
  "textBlocks": [
    {
      "text": "The actual text content",
      "x": 40,
      "y": 30,
      "width": 300,
      "height": 40,
      "fontSize": 28,
      "fontWeight": "bold",
      "textAlign": "center"
    }
  ]
}

POSITIONING:
- Always use a coordinate space of 1000 x 1100 units, whatever the image resolution.
- x=0 is the LEFT edge, y=0 is the TOP edge.
- Most resume text starts around x=50-80 (left margin).
- Centered names and headers sit around x=300-500 depending on text length.
- Right-side dates sit around x=750-900.
- Keep every block inside the page: x + width must not exceed 1000.

FONT SIZES:
- Name / title: 24-32
- Section headers (EDUCATION, EXPERIENCE): 14-18, bold
- Subheaders (job titles, degrees): 12-14, bold
- Body text: 10-12, normal
- Contact info: 10-11

ALIGNMENT (textAlign is "left", "center" or "right"):
- Names are usually centered.
- Body text is usually left-aligned.
- Dates are usually right-aligned.

Extract EVERY line of text as a separate block and preserve the layout.
Return ONLY valid JSON, no markdown or explanation.`
