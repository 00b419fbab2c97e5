package res

// AboutContent contains the Markdown content for the About dialog.
// This is maintained separately for easy updates.
const AboutContent = `A visualizer for annotated jungle and drum & bass DJ mixes, built with Go and Fyne.

**Features:**
- Follows the clock of a YouTube player running in your browser
- Animated views of the breaks and basslines playing right now
- Scrubbable timeline of songs and recurring patterns
- Fingerprints, descriptions and samples for every pattern

Pattern analysis was precomputed with Librosa and MIDI tooling; the app only reads the results.
`
