package extract

import "context"

// SampleText is the fixed resume body used while real extraction is disabled.
const SampleText = `
        John Doe
        Software Developer
        john.doe@email.com
        (555) 123-4567

        Experience:
        Senior Software Developer at Tech Corp (2020-2024)
        - Developed React applications using JavaScript and Node.js
        - Worked with AWS and Docker for deployment
        - Used Git for version control and collaborated with teams
        - Built RESTful APIs with Python and SQL databases

        Skills:
        JavaScript, React, Node.js, Python, SQL, AWS, Docker, Git

        Education:
        Bachelor of Computer Science
        University of Technology (2016-2020)
      `

// SampleExtractor ignores the upload and returns SampleText.
type SampleExtractor struct{}

// Extract implements Extractor.
func (SampleExtractor) Extract(ctx context.Context, _ []byte, _, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return SampleText, nil
}
