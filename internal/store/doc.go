// Package store persists crawl results as a JSON file.
//
// The file is an object keyed by entry id:
//
//	{
//	 "12": {
//	  "classification": "Trees",
//	  "name": "Giant Trees",
//	  "systems": ["Sol", "Achenar"]
//	 }
//	}
//
// Keys are sorted and indentation is stable so successive runs produce
// small diffs. A record is only written once its entry id has been crawled
// completely; the file is rewritten in full after each new record.
package store
