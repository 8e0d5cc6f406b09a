package domain

// Column is a required table column. Any of Names satisfies it; the first
// name is the canonical one reported in errors.
type Column struct {
	Names []string
}

// Canonical returns the column's primary name.
func (c Column) Canonical() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[0]
}

// TableSchema lists the columns a tabular source must provide.
type TableSchema struct {
	Name    string
	Columns []Column
}

// Canonical column names used by the order index and the order records.
const (
	ColOrderID       = "id"
	ColBuyer         = "nombre_comprador"
	ColEmail         = "email"
	ColProductName   = "nombre_producto"
	ColQuantityES    = "cantidad"
	ColPriceES       = "precio"
	ColTotal         = "total"
	ColStatus        = "estado"
	ColOrderDateES   = "fecha_pedido"
	ColDeliveryDate  = "fecha_entrega"
	ColCustomerID    = "customer_id"
	ColProduct       = "product"
	ColCategory      = "category"
	ColPrice         = "price"
	ColQuantity      = "quantity"
	ColOrderDate     = "order_date"
	ColPaymentMethod = "payment_method"
)

// OrderIndexSchema is the table behind the ORDERS index.
// Either id or customer_id identifies the order.
var OrderIndexSchema = TableSchema{
	Name: "orders",
	Columns: []Column{
		{Names: []string{ColOrderID, ColCustomerID}},
		{Names: []string{ColBuyer}},
		{Names: []string{ColEmail}},
		{Names: []string{ColProductName}},
		{Names: []string{ColQuantityES}},
		{Names: []string{ColPriceES}},
		{Names: []string{ColTotal}},
		{Names: []string{ColStatus}},
		{Names: []string{ColOrderDateES}},
		{Names: []string{ColDeliveryDate}},
	},
}

// OrderRecordSchema is the table evaluated by the return policy.
// Spanish column names from the orders export are accepted as aliases.
var OrderRecordSchema = TableSchema{
	Name: "order_records",
	Columns: []Column{
		{Names: []string{ColCustomerID, ColOrderID}},
		{Names: []string{ColProduct, ColProductName}},
		{Names: []string{ColCategory, "categoria"}},
		{Names: []string{ColPrice, ColPriceES}},
		{Names: []string{ColQuantity, ColQuantityES}},
		{Names: []string{ColOrderDate, ColOrderDateES}},
		{Names: []string{ColPaymentMethod, "metodo_pago"}},
	},
}
