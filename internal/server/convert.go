package server

import (
	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/pkg/lox"
	"coffer_scanner/pkg/rest"
)

func newRESTItem(row entity.ResultRow) rest.Item {
	return rest.Item{
		ID:              row.ID,
		Name:            row.Name,
		OfferPrice:      row.BuyPrice,
		GEPrice:         row.OfficialPrice,
		CofferValue:     row.CofferValue,
		ROI:             row.ROI,
		Volume:          row.Volume,
		VolumeEstimated: row.VolumeEstimated,
		Members:         row.Members,
		Timestamp:       row.ProcessedAt,
	}
}

func newRESTItemsResponse(view coffer.ItemsView) rest.ItemsResponse {
	return rest.ItemsResponse{
		Date:        view.Date,
		IsFallback:  view.IsFallback,
		ItemCount:   len(view.Items),
		Items:       lox.Map(view.Items, newRESTItem),
		SourceFiles: lox.Map(view.SourceFiles, func(f coffer.SourceFile) string { return f.Filename }),
		Timestamp:   view.Timestamp,
	}
}

func newRESTSnapshot(info entity.SnapshotInfo) rest.Snapshot {
	return rest.Snapshot{
		Pathname:   info.Pathname,
		URL:        info.URL,
		UploadedAt: info.UploadedAt,
		Size:       info.Size,
	}
}
