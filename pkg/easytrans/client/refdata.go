package client

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// ReferenceData fetches the products, substatuses, package types and
// vehicle types concurrently. The first failure cancels the other
// fetches and is returned unchanged. Only the first page of each list is
// read; the backend returns these tables whole.
func (c *Client) ReferenceData(ctx context.Context) (*easytrans.ReferenceData, error) {
	ctx, end := c.startSpan(ctx, "easytrans.reference_data")

	var data easytrans.ReferenceData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := c.GetProducts(gctx, easytrans.NameFilterOptions{})
		if err == nil {
			data.Products = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := c.GetSubstatuses(gctx, easytrans.NameFilterOptions{})
		if err == nil {
			data.Substatuses = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := c.GetPackageTypes(gctx, easytrans.NameFilterOptions{})
		if err == nil {
			data.PackageTypes = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := c.GetVehicleTypes(gctx, easytrans.NameFilterOptions{})
		if err == nil {
			data.VehicleTypes = page.Items
		}
		return err
	})

	if err := g.Wait(); err != nil {
		end(err)
		c.logger.Ctx(ctx).Error("Failed to fetch EasyTrans reference data", zap.Error(err))
		return nil, err
	}
	end(nil)

	c.logger.Ctx(ctx).Debug("Fetched EasyTrans reference data",
		zap.Int("products", len(data.Products)),
		zap.Int("substatuses", len(data.Substatuses)),
		zap.Int("package_types", len(data.PackageTypes)),
		zap.Int("vehicle_types", len(data.VehicleTypes)),
	)
	return &data, nil
}

// startSpan opens a span on the client's tracer, if it has one.
func (c *Client) startSpan(ctx context.Context, name string) (context.Context, func(error)) {
	if c.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := c.tracer.Start(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
