// Package resultlist provides a scrollable window over a list that keeps
// growing while it is displayed, such as the results of a running batch.
//
// The window follows the newest item until the user scrolls up, and resumes
// following once the cursor is moved back to the last item. Only the rows
// inside the window are rendered.
package resultlist
