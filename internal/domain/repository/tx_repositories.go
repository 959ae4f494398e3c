package repository

// TxRepositories agrupa los repositorios atados a una misma transacción de BD.
// Lo construye el TxRunner de infraestructura; los casos de uso no deben retenerlo fuera del callback.
type TxRepositories struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Sales     SaleRepository
	Purchases PurchaseRepository
	Customers CustomerRepository
	Sequences SequenceRepository

	Organizations OrganizationRepository
	Users         UserRepository
	Verifications VerificationRepository
}
