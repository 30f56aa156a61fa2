package catalog

import "time"

// SeedSource marks records that come from the built-in sample data
const SeedSource = "seed"

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic("bad seed timestamp: " + value)
	}
	return t
}

// SeedRecords returns the sample collection shown before any import
func SeedRecords() []FileRecord {
	records := []FileRecord{
		{ID: "1", Name: "Work Documents", Kind: KindFolder, ModifiedAt: at("2023-10-24T10:00:00Z"), Color: "bg-blue-100"},
		{ID: "2", Name: "Summer Vacation", Kind: KindFolder, ModifiedAt: at("2023-08-15T14:30:00Z"), Color: "bg-emerald-100"},
		{ID: "3", Name: "project_brief.pdf", Kind: KindFile, Category: CategoryDocuments, Extension: "pdf", Size: 2400000, ModifiedAt: at("2023-11-01T09:15:00Z"), ParentID: Ref("1")},
		{ID: "4", Name: "invoice_october.docx", Kind: KindFile, Category: CategoryDocuments, Extension: "docx", Size: 450000, ModifiedAt: at("2023-10-31T16:45:00Z"), ParentID: Ref("1")},
		{ID: "5", Name: "sunset_beach.jpg", Kind: KindFile, Category: CategoryImages, Extension: "jpg", Size: 5600000, ModifiedAt: at("2023-08-20T19:00:00Z"), ParentID: Ref("2")},
		{ID: "6", Name: "family_photo.png", Kind: KindFile, Category: CategoryImages, Extension: "png", Size: 8200000, ModifiedAt: at("2023-08-21T11:20:00Z"), ParentID: Ref("2")},
		{ID: "7", Name: "vlog_day1.mp4", Kind: KindFile, Category: CategoryVideos, Extension: "mp4", Size: 145000000, ModifiedAt: at("2023-08-22T22:10:00Z"), ParentID: Ref("2")},
		{ID: "8", Name: "favorite_song.mp3", Kind: KindFile, Category: CategoryMusic, Extension: "mp3", Size: 4800000, ModifiedAt: at("2023-11-02T08:00:00Z")},
		{ID: "9", Name: "System Logs", Kind: KindFolder, ModifiedAt: at("2023-11-03T12:00:00Z"), Color: "bg-slate-100"},
		{ID: "10", Name: "backup_2023.zip", Kind: KindFile, Category: CategoryArchives, Extension: "zip", Size: 890000000, ModifiedAt: at("2023-01-01T00:00:00Z"), ParentID: Ref("9")},
		{ID: "11", Name: "Notes", Kind: KindFolder, ModifiedAt: at("2023-11-04T10:00:00Z"), Color: "bg-amber-100"},
		{
			ID: "12", Name: "idea_dump.txt", Kind: KindFile, Category: CategoryDocuments, Extension: "txt", Size: 1200,
			ModifiedAt: at("2023-11-04T10:05:00Z"), ParentID: Ref("11"),
			Content: "Explore the possibilities of AI integration in file explorers. Focus on vector embeddings for semantic search and auto-tagging.",
		},
	}
	for i := range records {
		records[i].Source = SeedSource
	}
	return records
}

// Seed returns a catalog holding the sample collection
func Seed() *Catalog {
	c, err := New(SeedRecords())
	if err != nil {
		panic(err)
	}
	return c
}
