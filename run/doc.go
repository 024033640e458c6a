// Package run drives a full answering pass over a question set. It loads
// the dataset, skips questions already present in the durable output,
// answers the rest through the pipeline under quota governance, and appends
// one CSV row per question as soon as it is answered so an interrupted run
// loses at most the question in flight.
package run
