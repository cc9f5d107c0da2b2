package schema

// SheetType identifies one of the supported export layouts.
type SheetType string

const (
	SheetPurchaseHeaders SheetType = "purchase_headers"
	SheetPurchaseLines   SheetType = "purchase_lines"
	SheetInvoices        SheetType = "invoices"
	SheetCollections     SheetType = "collections"
	SheetRelatedDocs     SheetType = "related_docs"
	SheetSalesOrders     SheetType = "sales_orders"
)

// FieldKind drives value cleaning and parsing.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindDate
	KindUUID
	KindPercent
)

// Field is one canonical column of a sheet layout. Synonyms are matched
// case-insensitively against cleaned source headers and include spelling
// variants and typos observed in historical files. Position is the ordinal
// fallback when no header name matches; -1 disables positional mapping.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	Synonyms []string
	Position int
}

// SheetDef is the static, versioned mapping table for one sheet type.
type SheetDef struct {
	Type             SheetType
	Fields           []Field
	HeaderKeywords   []string
	MinHeaderMatches int
}

// Definition returns the mapping table for a sheet type. The tables are
// fixed at startup; source files frequently omit or mis-name headers but
// preserve column order, so each field carries its documented ordinal.
func Definition(t SheetType) (SheetDef, bool) {
	def, ok := definitions[t]
	return def, ok
}

var definitions = map[SheetType]SheetDef{
	SheetPurchaseHeaders: {
		Type: SheetPurchaseHeaders,
		HeaderKeywords: []string{
			"imi", "proveedor", "fecha", "puerto", "moneda",
			"credito", "anticipo", "tipo de cambio", "gastos",
		},
		MinHeaderMatches: 0,
		Fields: []Field{
			{Name: "order_id", Kind: KindNumber, Required: true, Position: 0,
				Synonyms: []string{"imi", "no. imi", "no imi", "imi no", "pedido"}},
			{Name: "supplier", Kind: KindString, Required: true, Position: 1,
				Synonyms: []string{"proveedor", "provedor", "supplier", "nombre proveedor"}},
			{Name: "order_date", Kind: KindDate, Required: true, Position: 2,
				Synonyms: []string{"fecha pedido", "fecha de pedido", "fecha"}},
			{Name: "origin_port", Kind: KindString, Position: 3,
				Synonyms: []string{"puerto origen", "puerto de origen", "puerto"}},
			{Name: "currency", Kind: KindString, Position: 4,
				Synonyms: []string{"moneda", "divisa"}},
			{Name: "credit_term_days", Kind: KindNumber, Position: 5,
				Synonyms: []string{"dias credito", "dias de credito", "días crédito", "credito"}},
			{Name: "advance_percent", Kind: KindPercent, Position: 6,
				Synonyms: []string{"% anticipo", "anticipo %", "porcentaje anticipo", "pct anticipo"}},
			{Name: "advance_amount", Kind: KindNumber, Position: 7,
				Synonyms: []string{"anticipo", "monto anticipo", "importe anticipo"}},
			{Name: "advance_date", Kind: KindDate, Position: 8,
				Synonyms: []string{"fecha anticipo", "fecha de anticipo"}},
			{Name: "estimated_ship_date", Kind: KindDate, Position: 9,
				Synonyms: []string{"etd", "fecha embarque estimada", "embarque estimado"}},
			{Name: "actual_ship_date", Kind: KindDate, Position: 10,
				Synonyms: []string{"fecha embarque real", "embarque real", "fecha embarque"}},
			{Name: "estimated_arrival_date", Kind: KindDate, Position: 11,
				Synonyms: []string{"eta", "fecha llegada estimada", "llegada estimada"}},
			{Name: "actual_arrival_date", Kind: KindDate, Position: 12,
				Synonyms: []string{"fecha llegada real", "llegada real", "fecha llegada"}},
			{Name: "actual_plant_date", Kind: KindDate, Position: 13,
				Synonyms: []string{"fecha planta", "llegada planta", "fecha llegada planta"}},
			{Name: "estimated_rate", Kind: KindNumber, Position: 14,
				Synonyms: []string{"tc estimado", "t.c. estimado", "tipo de cambio estimado"}},
			{Name: "actual_rate", Kind: KindNumber, Position: 15,
				Synonyms: []string{"tc real", "t.c. real", "tipo de cambio real", "tipo de cambio"}},
			{Name: "import_expense_origin", Kind: KindNumber, Position: 16,
				Synonyms: []string{"gastos importacion usd", "gastos importación usd", "gastos imp origen"}},
			{Name: "import_expense_local", Kind: KindNumber, Position: 17,
				Synonyms: []string{"gastos importacion mxn", "gastos importacion", "gastos importación", "gastos imp mxn"}},
		},
	},
	SheetPurchaseLines: {
		Type:             SheetPurchaseLines,
		HeaderKeywords:   []string{"imi", "material", "cantidad", "precio", "kg"},
		MinHeaderMatches: 0,
		Fields: []Field{
			{Name: "order_id", Kind: KindNumber, Required: true, Position: 0,
				Synonyms: []string{"imi", "no. imi", "no imi", "pedido"}},
			{Name: "material_code", Kind: KindString, Required: true, Position: 1,
				Synonyms: []string{"material", "codigo material", "código material", "clave material", "clave"}},
			{Name: "quantity_kg", Kind: KindNumber, Required: true, Position: 2,
				Synonyms: []string{"cantidad kg", "cantidad kgs", "kgs", "kilos", "cantidad"}},
			{Name: "unit_price_origin", Kind: KindNumber, Position: 3,
				Synonyms: []string{"precio unitario", "precio unitario usd", "p.u.", "precio"}},
		},
	},
	SheetInvoices: {
		Type: SheetInvoices,
		HeaderKeywords: []string{
			"uuid", "folio", "fecha", "cliente", "total", "saldo", "vendedor",
		},
		MinHeaderMatches: 3,
		Fields: []Field{
			{Name: "uuid", Kind: KindUUID, Required: true, Position: 0,
				Synonyms: []string{"uuid", "folio fiscal", "uuid fiscal"}},
			{Name: "folio", Kind: KindString, Required: true, Position: 1,
				Synonyms: []string{"folio", "no. factura", "numero factura", "número factura"}},
			{Name: "issue_date", Kind: KindDate, Position: 2,
				Synonyms: []string{"fecha", "fecha factura", "fecha emision", "fecha emisión"}},
			{Name: "client", Kind: KindString, Position: 3,
				Synonyms: []string{"cliente", "razon social", "razón social", "nombre cliente"}},
			{Name: "net_amount", Kind: KindNumber, Position: 4,
				Synonyms: []string{"subtotal", "importe neto", "neto"}},
			{Name: "total_amount", Kind: KindNumber, Position: 5,
				Synonyms: []string{"total", "importe total", "monto total"}},
			{Name: "outstanding_balance", Kind: KindNumber, Position: 6,
				Synonyms: []string{"saldo", "saldo pendiente", "saldo insoluto"}},
			{Name: "credit_term_days", Kind: KindNumber, Position: 7,
				Synonyms: []string{"dias credito", "días crédito", "condiciones de pago", "plazo"}},
			{Name: "salesperson", Kind: KindString, Position: 8,
				Synonyms: []string{"vendedor", "agente", "agente de ventas"}},
		},
	},
	SheetCollections: {
		Type: SheetCollections,
		HeaderKeywords: []string{
			"fecha", "pago", "importe", "moneda", "uuid", "tipo de cambio",
		},
		MinHeaderMatches: 3,
		Fields: []Field{
			{Name: "payment_date", Kind: KindDate, Required: true, Position: 0,
				Synonyms: []string{"fecha pago", "fecha de pago", "fecha cobro", "fecha"}},
			{Name: "amount", Kind: KindNumber, Required: true, Position: 1,
				Synonyms: []string{"importe", "importe pagado", "monto", "monto pagado"}},
			{Name: "currency", Kind: KindString, Position: 2,
				Synonyms: []string{"moneda", "divisa"}},
			{Name: "exchange_rate", Kind: KindNumber, Position: 3,
				Synonyms: []string{"tipo de cambio", "tc", "t.c."}},
			// nullable: unmatched collections are valid but unreconciled
			{Name: "invoice_uuid", Kind: KindUUID, Position: 4,
				Synonyms: []string{"uuid", "uuid relacionado", "uuid factura", "folio fiscal"}},
		},
	},
	SheetRelatedDocs: {
		Type:             SheetRelatedDocs,
		HeaderKeywords:   []string{"uuid", "tipo", "importe", "anticipo", "nota"},
		MinHeaderMatches: 3,
		Fields: []Field{
			{Name: "invoice_uuid", Kind: KindUUID, Required: true, Position: 0,
				Synonyms: []string{"uuid", "uuid relacionado", "uuid factura"}},
			{Name: "doc_type", Kind: KindString, Position: 1,
				Synonyms: []string{"tipo", "tipo documento", "tipo de relacion", "tipo de relación"}},
			{Name: "doc_date", Kind: KindDate, Position: 2,
				Synonyms: []string{"fecha", "fecha documento"}},
			{Name: "amount", Kind: KindNumber, Required: true, Position: 3,
				Synonyms: []string{"importe", "monto"}},
		},
	},
	SheetSalesOrders: {
		Type: SheetSalesOrders,
		HeaderKeywords: []string{
			"pedido", "folio", "cliente", "importe", "fecha factura",
		},
		MinHeaderMatches: 3,
		Fields: []Field{
			{Name: "order_ref", Kind: KindString, Required: true, Position: 0,
				Synonyms: []string{"pedido", "no. pedido", "orden", "no. orden"}},
			{Name: "folio", Kind: KindString, Position: 1,
				Synonyms: []string{"folio", "factura", "folio factura"}},
			{Name: "client", Kind: KindString, Position: 2,
				Synonyms: []string{"cliente", "razon social", "razón social"}},
			{Name: "amount", Kind: KindNumber, Required: true, Position: 3,
				Synonyms: []string{"importe", "monto", "importe pedido"}},
			{Name: "invoice_date", Kind: KindDate, Position: 4,
				Synonyms: []string{"fecha factura", "fecha de factura"}},
			{Name: "credit_term_days", Kind: KindNumber, Position: 5,
				Synonyms: []string{"dias credito", "días crédito", "plazo"}},
		},
	},
}
