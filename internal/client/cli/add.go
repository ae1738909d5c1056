package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iudanet/digimarket/internal/client/upload"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// productFlags - поля формы товара
type productFlags struct {
	title            string
	description      string
	shortDescription string
	category         string
	tags             string
	sku              string
	status           string
	file             string
	thumbnail        string
	price            float64
	compareAtPrice   float64
	stock            int64
	downloadLimit    int64
	active           bool
	featured         bool
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "product title")
	fs.StringVar(&f.description, "description", "", "full description (at least 10 characters)")
	fs.StringVar(&f.shortDescription, "short-description", "", "short description")
	fs.StringVar(&f.category, "category", "", "category")
	fs.StringVar(&f.tags, "tags", "", "comma separated tags")
	fs.StringVar(&f.sku, "sku", "", "stock keeping unit")
	fs.StringVar(&f.status, "status", string(pkgapi.ProductStatusDraft), "status: draft, pending, active, suspended, archived")
	fs.StringVar(&f.file, "file", "", "product file (pdf, zip, mp4, jpeg, png)")
	fs.StringVar(&f.thumbnail, "thumbnail", "", "thumbnail image (jpeg, png)")
	fs.Float64Var(&f.price, "price", 0, "price")
	fs.Float64Var(&f.compareAtPrice, "compare-at-price", 0, "original price shown crossed out")
	fs.Int64Var(&f.stock, "stock", 0, "stock quantity")
	fs.Int64Var(&f.downloadLimit, "download-limit", 0, "downloads per purchase (0 - unlimited)")
	fs.BoolVar(&f.active, "active", true, "publish the product")
	fs.BoolVar(&f.featured, "featured", false, "feature the product")
}

func (f *productFlags) create(fs *pflag.FlagSet) pkgapi.ProductCreate {
	return pkgapi.ProductCreate{
		Title:            f.title,
		Description:      f.description,
		ShortDescription: changedString(fs, "short-description", f.shortDescription),
		Price:            f.price,
		CompareAtPrice:   changedFloat(fs, "compare-at-price", f.compareAtPrice),
		Category:         changedString(fs, "category", f.category),
		Tags:             changedString(fs, "tags", f.tags),
		SKU:              changedString(fs, "sku", f.sku),
		Status:           pkgapi.ProductStatus(f.status),
		IsActive:         f.active,
		IsFeatured:       f.featured,
		StockQuantity:    f.stock,
		DownloadLimit:    f.downloadLimit,
	}
}

// update содержит только явно заданные флаги
func (f *productFlags) update(fs *pflag.FlagSet) pkgapi.ProductUpdate {
	u := pkgapi.ProductUpdate{
		Title:            changedString(fs, "title", f.title),
		Description:      changedString(fs, "description", f.description),
		ShortDescription: changedString(fs, "short-description", f.shortDescription),
		Price:            changedFloat(fs, "price", f.price),
		CompareAtPrice:   changedFloat(fs, "compare-at-price", f.compareAtPrice),
		Category:         changedString(fs, "category", f.category),
		Tags:             changedString(fs, "tags", f.tags),
		SKU:              changedString(fs, "sku", f.sku),
		IsActive:         changedBool(fs, "active", f.active),
		IsFeatured:       changedBool(fs, "featured", f.featured),
		StockQuantity:    changedInt(fs, "stock", f.stock),
		DownloadLimit:    changedInt(fs, "download-limit", f.downloadLimit),
	}
	if fs.Changed("status") {
		status := pkgapi.ProductStatus(f.status)
		u.Status = &status
	}
	return u
}

// attachments открывает файлы формы; пустой путь - нет файла
func (f *productFlags) attachments() (file, thumbnail *upload.Attachment, err error) {
	if f.file != "" {
		if file, err = upload.FromFile(f.file); err != nil {
			return nil, nil, err
		}
	}
	if f.thumbnail != "" {
		if thumbnail, err = upload.FromFile(f.thumbnail); err != nil {
			return nil, nil, err
		}
	}
	return file, thumbnail, nil
}

func (c *Cli) createCommand() *cobra.Command {
	var form productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product with its downloadable file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			file, thumbnail, err := form.attachments()
			if err != nil {
				return err
			}

			stream := c.app.Products.CreateProductStream(form.create(cmd.Flags()), file, thumbnail)
			product, err := c.waitUpload(cmd, stream)
			if err != nil {
				return err
			}

			c.remember(cmd, product)
			c.io.Printf("✓ Product created: %s (ID: %d)\n", product.Title, product.ID)
			return nil
		},
	}

	form.register(cmd.Flags())
	return cmd
}

func (c *Cli) updateCommand() *cobra.Command {
	var form productFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update product fields; only the given flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			file, thumbnail, err := form.attachments()
			if err != nil {
				return err
			}

			stream := c.app.Products.UpdateProductStream(id, form.update(cmd.Flags()), file, thumbnail)
			product, err := c.waitUpload(cmd, stream)
			if err != nil {
				return err
			}

			c.remember(cmd, product)
			c.io.Printf("✓ Product updated: %s (ID: %d)\n", product.Title, product.ID)
			return nil
		},
	}

	form.register(cmd.Flags())
	return cmd
}

func (c *Cli) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a product file without creating a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}

			file, err := upload.FromFile(args[0])
			if err != nil {
				return err
			}

			p := c.newProgressPrinter()
			result, err := c.app.Products.UploadFile(cmd.Context(), file, p.print)
			p.done()
			if err != nil {
				return err
			}

			c.io.Printf("✓ Uploaded %s (%d bytes, %s)\n", result.FileName, result.FileSize, result.FileType)
			c.io.Printf("URL: %s\n", result.FileURL)
			return nil
		},
	}
}

// waitUpload выполняет загрузку, показывая прогресс
func (c *Cli) waitUpload(cmd *cobra.Command, stream *upload.Stream[pkgapi.Product]) (*pkgapi.Product, error) {
	p := c.newProgressPrinter()
	product, err := stream.Wait(cmd.Context(), p.print)
	p.done()
	return product, err
}

// remember кладет товар в кэш dashboard; ошибка кэша не ломает команду
func (c *Cli) remember(cmd *cobra.Command, product *pkgapi.Product) {
	if err := c.app.Dashboard.Upsert(cmd.Context(), product); err != nil {
		c.logger.Warn("failed to cache product", "id", product.ID, "error", err)
	}
}

// progressPrinter печатает проценты в одной строке
type progressPrinter struct {
	c     *Cli
	shown bool
}

func (c *Cli) newProgressPrinter() *progressPrinter {
	return &progressPrinter{c: c}
}

func (p *progressPrinter) print(percent int) {
	p.shown = true
	p.c.io.Printf("\rUploading... %3d%%", percent)
}

func (p *progressPrinter) done() {
	if p.shown {
		p.c.io.Println()
	}
}

